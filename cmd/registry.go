package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
)

var (
	registryFile     string
	registryDefaults bool
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the approved-domain registry",
}

// registryDoc is the YAML shape of a registry bulk-load file.
type registryDoc struct {
	Domains     []model.RegistryEntry `yaml:"domains"`
	Competitors []string              `yaml:"competitors"`
}

// loadRegistryDoc resolves the bulk-load source: the compiled-in defaults
// with --defaults, otherwise the YAML file. Either way the rows must survive
// registry construction before the store is touched, so a bad file cannot
// half-load.
func loadRegistryDoc() (registryDoc, error) {
	if registryDefaults {
		reg := registry.Default()
		return registryDoc{Domains: reg.Entries(), Competitors: reg.Competitors()}, nil
	}

	raw, err := os.ReadFile(registryFile)
	if err != nil {
		return registryDoc{}, eris.Wrapf(err, "read %s", registryFile)
	}

	var doc registryDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return registryDoc{}, eris.Wrapf(err, "parse %s", registryFile)
	}
	if _, err := registry.FromStored(doc.Domains, doc.Competitors); err != nil {
		return registryDoc{}, eris.Wrap(err, "validate registry file")
	}
	return doc, nil
}

var registryLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load registry entries from a YAML file or the compiled-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		doc, err := loadRegistryDoc()
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, "audit")
		if err != nil {
			return err
		}
		defer env.Close()

		n, err := env.Store.UpsertRegistry(ctx, doc.Domains, doc.Competitors)
		if err != nil {
			return eris.Wrap(err, "upsert registry")
		}

		zap.L().Info("registry loaded",
			zap.Int64("upserted", n),
			zap.Int("competitors", len(doc.Competitors)),
		)
		fmt.Printf("loaded %d domains, %d competitors\n", n, len(doc.Competitors))
		return nil
	},
}

var registryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry size, tiers, and competitor count",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "audit")
		if err != nil {
			return err
		}
		defer env.Close()

		reg := env.Registry
		fmt.Printf("domains:     %d\n", reg.Len())
		fmt.Printf("competitors: %d\n", len(reg.Competitors()))
		fmt.Println("tiers:")
		for _, tier := range reg.SearchTiers() {
			fmt.Printf("  %-3s %-32s %d domains\n", tier.ID, tier.Label, len(tier.Domains))
		}
		return nil
	},
}

func init() {
	registryLoadCmd.Flags().StringVar(&registryFile, "file", "registry.yaml", "registry YAML file")
	registryLoadCmd.Flags().BoolVar(&registryDefaults, "defaults", false, "seed the store from the compiled-in registry")
	registryCmd.AddCommand(registryLoadCmd, registryStatusCmd)
	rootCmd.AddCommand(registryCmd)
}
