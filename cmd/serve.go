package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/citations"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for discovery and audit requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(ctx, env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the webhook routes. Split out so tests can exercise the
// handlers without binding a port.
func newServeMux(ctx context.Context, env *appEnv) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /webhook/discover", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ArticleID string `json:"article_id"`
			Target    int    `json:"target"`
			Persist   bool   `json:"persist"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.ArticleID == "" {
			http.Error(w, `{"error":"article_id is required"}`, http.StatusBadRequest)
			return
		}

		// Run discovery asynchronously; the webhook acknowledges receipt.
		go func() {
			article, err := env.Store.GetArticle(ctx, req.ArticleID)
			if err != nil {
				zap.L().Error("webhook discovery: load article failed",
					zap.String("article_id", req.ArticleID),
					zap.Error(err),
				)
				return
			}
			result, err := env.Orchestrator.Discover(ctx, *article, citations.Options{
				TargetCount: req.Target,
				Persist:     req.Persist,
			})
			if err != nil {
				zap.L().Error("webhook discovery failed",
					zap.String("article_id", req.ArticleID),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("webhook discovery complete",
				zap.String("article_id", req.ArticleID),
				zap.String("status", string(result.Status)),
				zap.Int("citations", len(result.Citations)),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "accepted",
			"article_id": req.ArticleID,
		})
	})

	mux.HandleFunc("POST /webhook/audit", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ArticleID string `json:"article_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.ArticleID == "" {
			http.Error(w, `{"error":"article_id is required"}`, http.StatusBadRequest)
			return
		}

		go func() {
			article, err := env.Store.GetArticle(ctx, req.ArticleID)
			if err != nil {
				zap.L().Error("webhook audit: load article failed",
					zap.String("article_id", req.ArticleID),
					zap.Error(err),
				)
				return
			}
			violations := env.Auditor.ScanArticle(ctx, *article)
			if err := env.Auditor.UpsertAlerts(ctx, env.Store, req.ArticleID, violations); err != nil {
				zap.L().Error("webhook audit failed",
					zap.String("article_id", req.ArticleID),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("webhook audit complete",
				zap.String("article_id", req.ArticleID),
				zap.Int("violations", len(violations)),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "accepted",
			"article_id": req.ArticleID,
		})
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
