package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/citations"
)

var (
	discoverTarget  int
	discoverPersist bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover <article-id>",
	Short: "Discover citations for one article",
	Long:  "Runs the cascading batch search for an article: tiered domain-restricted AI search, policy filtering, authority scoring, deduplication, and link verification. Prints the ranked result set as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		articleID := args[0]

		env, err := initEnv(ctx, "discover")
		if err != nil {
			return err
		}
		defer env.Close()

		article, err := env.Store.GetArticle(ctx, articleID)
		if err != nil {
			return eris.Wrapf(err, "load article %s", articleID)
		}

		result, err := env.Orchestrator.Discover(ctx, *article, citations.Options{
			TargetCount: discoverTarget,
			Persist:     discoverPersist,
		})
		if err != nil {
			return eris.Wrap(err, "discover citations")
		}

		zap.L().Info("discovery finished",
			zap.String("article_id", articleID),
			zap.String("status", string(result.Status)),
			zap.Int("citations", len(result.Citations)),
			zap.Int("verified", result.VerifiedCount),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	discoverCmd.Flags().IntVar(&discoverTarget, "target", 0, "citation target count (default from funnel stage)")
	discoverCmd.Flags().BoolVar(&discoverPersist, "persist", false, "write accepted citations back to the article")
	rootCmd.AddCommand(discoverCmd)
}
