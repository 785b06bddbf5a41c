package model

import "time"

// DomainUsage is one aggregated row of the citation usage ledger. The ledger
// itself is append-only; counts are derived by aggregation at read time, so
// concurrent writers never race on a counter.
type DomainUsage struct {
	ArticleID  string    `json:"article_id,omitempty"`
	Domain     string    `json:"domain"`
	UseCount   int       `json:"use_count"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// RegistryEntry is one allow-listed domain as persisted by the
// administrative bulk-load path. Domain may carry a path prefix for
// path-scoped approval (e.g. "example.org/statistics").
type RegistryEntry struct {
	Domain     string `json:"domain" yaml:"domain"`
	Category   string `json:"category" yaml:"category"`
	TrustScore int    `json:"trust_score" yaml:"trust_score"`
	SearchTier string `json:"search_tier" yaml:"search_tier"`
}
