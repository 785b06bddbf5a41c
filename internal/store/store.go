package store

import (
	"context"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// AlertFilter specifies criteria for listing compliance alerts.
type AlertFilter struct {
	ArticleID  string          `json:"article_id,omitempty"`
	AlertType  model.AlertType `json:"alert_type,omitempty"`
	Unresolved bool            `json:"unresolved,omitempty"`
	Limit      int             `json:"limit,omitempty"`
}

// Store defines the persistence interface for the citation engine: article
// citation storage, the domain registry's durable copy, the append-only
// usage ledger, and compliance alerts.
type Store interface {
	// Articles
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	ListArticles(ctx context.Context, limit, offset int) ([]model.Article, error)
	// ReplaceCitations swaps an article's external_citations array. A backup
	// row is appended before the destructive write.
	ReplaceCitations(ctx context.Context, articleID string, citations []model.Citation, backupReason string) error

	// Domain registry (administrative bulk load)
	UpsertRegistry(ctx context.Context, entries []model.RegistryEntry, competitors []string) (int64, error)
	LoadRegistry(ctx context.Context) ([]model.RegistryEntry, []string, error)

	// Usage ledger (append-only; counts aggregate at read time)
	RecordDomainUsage(ctx context.Context, articleID, domain, url, source string) error
	ArticleUsedDomains(ctx context.Context, articleID string) ([]string, error)
	DomainUsageCounts(ctx context.Context, limit int) ([]model.DomainUsage, error)
	DeactivateUsage(ctx context.Context, articleID, url string) error

	// Compliance alerts
	// ReplaceUnresolvedAlerts atomically swaps an article's unresolved alerts
	// for the given set (which may be empty), returning how many it cleared.
	ReplaceUnresolvedAlerts(ctx context.Context, articleID string, alerts []model.ComplianceAlert) (int64, error)
	ResolveAlert(ctx context.Context, alertID string) error
	ListAlerts(ctx context.Context, filter AlertFilter) ([]model.ComplianceAlert, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
