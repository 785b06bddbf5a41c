package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var rotationLimit int

var rotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Inspect domain-usage rotation state",
}

var rotationStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show global domain use counts, least-used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "audit")
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Store.DomainUsageCounts(ctx, rotationLimit)
		if err != nil {
			return eris.Wrap(err, "load usage counts")
		}

		if len(counts) == 0 {
			fmt.Println("no recorded domain usage")
			return nil
		}
		for _, c := range counts {
			fmt.Printf("%-40s %d\n", c.Domain, c.UseCount)
		}
		return nil
	},
}

func init() {
	rotationStatusCmd.Flags().IntVar(&rotationLimit, "limit", 50, "max domains to list")
	rotationCmd.AddCommand(rotationStatusCmd)
	rootCmd.AddCommand(rotationCmd)
}
