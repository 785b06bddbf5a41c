package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/audit"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/authority"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/citations"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/resilience"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/rotation"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/store"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/verifier"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/pkg/websearch"
)

// appEnv holds the initialized store, registry, and engine components shared
// by the discover/audit/serve commands.
type appEnv struct {
	Store        store.Store
	Registry     *registry.Registry
	Scorer       *authority.Scorer
	Verifier     *verifier.Verifier
	Tracker      *rotation.Tracker
	Orchestrator *citations.Orchestrator
	Auditor      *audit.Auditor
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "citations.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initRegistry builds the registry from the store's durable copy, falling
// back to the compiled-in defaults when nothing has been loaded yet.
func initRegistry(ctx context.Context, st store.Store) (*registry.Registry, error) {
	entries, competitors, err := st.LoadRegistry(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load registry")
	}
	if len(entries) == 0 {
		zap.L().Info("registry store is empty, using compiled-in defaults")
		return registry.Default(), nil
	}

	reg, err := registry.FromStored(entries, competitors)
	if err != nil {
		return nil, eris.Wrap(err, "build registry")
	}
	zap.L().Info("registry loaded from store",
		zap.Int("domains", reg.Len()),
		zap.Int("competitors", len(reg.Competitors())),
	)
	return reg, nil
}

// initEnv sets up the store, registry, and engine components for the given
// run mode. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	reg, err := initRegistry(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	scorer := authority.New(reg)
	ver := verifier.New(reg,
		verifier.WithTimeout(time.Duration(cfg.Verifier.TimeoutSecs)*time.Second),
		verifier.WithConcurrency(cfg.Verifier.Concurrency),
	)
	tracker := rotation.New(st)

	searchClient := websearch.NewClient(cfg.Search.Key,
		websearch.WithBaseURL(cfg.Search.BaseURL),
		websearch.WithModel(cfg.Search.Model),
		websearch.WithTimeout(time.Duration(cfg.Search.TimeoutSecs)*time.Second),
	)

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Search.MaxRetries

	orch := citations.New(searchClient, reg, scorer, ver, tracker, st, citations.Config{
		MaxTiers:           cfg.Discovery.MaxTiers,
		UnderutilizedLimit: cfg.Discovery.UnderutilizedLimit,
		SearchRatePerSec:   cfg.Search.RatePerSec,
		Retry:              retry,
	})

	auditOpts := []audit.Option{audit.WithTopOffenders(cfg.Audit.TopOffenders)}
	if cfg.Audit.ProbeLinks {
		auditOpts = append(auditOpts, audit.WithVerifier(ver))
	}
	auditor := audit.New(reg, auditOpts...)

	return &appEnv{
		Store:        st,
		Registry:     reg,
		Scorer:       scorer,
		Verifier:     ver,
		Tracker:      tracker,
		Orchestrator: orch,
		Auditor:      auditor,
	}, nil
}
