package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	auditScanPersist bool
	auditReportLimit int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compliance scanning and reporting",
}

var auditScanCmd = &cobra.Command{
	Use:   "scan <article-id>",
	Short: "Scan one article for citation policy violations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		articleID := args[0]

		env, err := initEnv(ctx, "audit")
		if err != nil {
			return err
		}
		defer env.Close()

		article, err := env.Store.GetArticle(ctx, articleID)
		if err != nil {
			return eris.Wrapf(err, "load article %s", articleID)
		}

		violations := env.Auditor.ScanArticle(ctx, *article)

		if auditScanPersist {
			if err := env.Auditor.UpsertAlerts(ctx, env.Store, articleID, violations); err != nil {
				return err
			}
		}

		if len(violations) == 0 {
			fmt.Println("no violations")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(violations)
	},
}

var auditReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a compliance report over the article corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "audit")
		if err != nil {
			return err
		}
		defer env.Close()

		articles, err := env.Store.ListArticles(ctx, auditReportLimit, 0)
		if err != nil {
			return eris.Wrap(err, "list articles")
		}

		report := env.Auditor.BuildReport(ctx, articles)

		zap.L().Info("compliance report built",
			zap.Int("articles", report.ArticlesScanned),
			zap.Int("citations", report.TotalCitations),
			zap.Int("score", report.ComplianceScore),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	auditScanCmd.Flags().BoolVar(&auditScanPersist, "persist", false, "upsert alerts for the article")
	auditReportCmd.Flags().IntVar(&auditReportLimit, "limit", 500, "max articles to scan")
	auditCmd.AddCommand(auditScanCmd, auditReportCmd)
	rootCmd.AddCommand(auditCmd)
}
