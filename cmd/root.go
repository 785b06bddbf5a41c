package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citations",
	Short: "Citation discovery and compliance engine",
	Long:  "Discovers, scores, verifies, and polices external citations for published articles: tiered domain-restricted AI search, authority scoring, link verification, and compliance auditing.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a local-dev convenience; absence is not an error.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
