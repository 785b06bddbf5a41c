// Package rotation biases citation discovery away from overused domains.
// Rotation is a ranking signal, never a hard constraint: a search over
// well-used domains still proceeds.
package rotation

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// UsageStore is the slice of the persistence layer the tracker needs.
type UsageStore interface {
	RecordDomainUsage(ctx context.Context, articleID, domain, url, source string) error
	ArticleUsedDomains(ctx context.Context, articleID string) ([]string, error)
	DomainUsageCounts(ctx context.Context, limit int) ([]model.DomainUsage, error)
}

// Tracker reads and appends the per-article and global domain-usage ledger.
type Tracker struct {
	store UsageStore
}

// New creates a Tracker.
func New(store UsageStore) *Tracker {
	return &Tracker{store: store}
}

// ArticleUsedDomains returns the set of domains the article already cites
// (active citations only).
func (t *Tracker) ArticleUsedDomains(ctx context.Context, articleID string) (map[string]struct{}, error) {
	domains, err := t.store.ArticleUsedDomains(ctx, articleID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		out[normalizeDomain(d)] = struct{}{}
	}
	return out, nil
}

// UnderutilizedDomains returns up to limit domains ordered ascending by
// global historical use count.
func (t *Tracker) UnderutilizedDomains(ctx context.Context, limit int) ([]string, error) {
	counts, err := t.store.DomainUsageCounts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, normalizeDomain(c.Domain))
	}
	return out, nil
}

// FilterAndPrioritize removes domains the article already cites, then
// stable-sorts the remainder so underutilized domains come first. The
// original order is the tiebreaker, so registry priority survives the pass.
func FilterAndPrioritize(candidates []string, usedInArticle map[string]struct{}, underutilized []string) []string {
	underSet := make(map[string]struct{}, len(underutilized))
	for _, d := range underutilized {
		underSet[normalizeDomain(d)] = struct{}{}
	}

	out := make([]string, 0, len(candidates))
	for _, d := range candidates {
		if _, used := usedInArticle[normalizeDomain(d)]; used {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		_, iUnder := underSet[normalizeDomain(out[i])]
		_, jUnder := underSet[normalizeDomain(out[j])]
		return iUnder && !jUnder
	})
	return out
}

// RecordUsage appends one ledger row for an accepted citation. Failures are
// logged and swallowed: bookkeeping must never block citation acceptance.
func (t *Tracker) RecordUsage(ctx context.Context, articleID, rawURL, source string) {
	domain := DomainOf(rawURL)
	if domain == "" {
		zap.L().Warn("rotation: cannot extract domain from url", zap.String("url", rawURL))
		return
	}
	if err := t.store.RecordDomainUsage(ctx, articleID, domain, rawURL, source); err != nil {
		zap.L().Warn("rotation: usage record failed",
			zap.String("article_id", articleID),
			zap.String("domain", domain),
			zap.Error(err),
		)
	}
}

// DomainOf extracts the normalized hostname from a citation URL.
func DomainOf(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return normalizeDomain(parsed.Hostname())
}

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}
