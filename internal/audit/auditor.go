// Package audit scans published articles for citation policy violations and
// aggregates corpus-wide compliance reports. It runs independently of
// discovery, over articles as they exist in storage.
package audit

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/rotation"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/verifier"
)

// AlertStore is the slice of persistence the auditor writes alerts through.
type AlertStore interface {
	ReplaceUnresolvedAlerts(ctx context.Context, articleID string, alerts []model.ComplianceAlert) (int64, error)
}

// URLVerifier probes links during a scan. Optional: without one, broken-link
// detection falls back to the stored verification status.
type URLVerifier interface {
	VerifyAll(ctx context.Context, urls []string) map[string]verifier.Result
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithVerifier enables live broken-link probing during scans.
func WithVerifier(v URLVerifier) Option {
	return func(a *Auditor) { a.verify = v }
}

// WithTopOffenders sets how many offending domains a report ranks. Default 10.
func WithTopOffenders(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.topOffenders = n
		}
	}
}

// Auditor detects citation policy violations.
type Auditor struct {
	reg          *registry.Registry
	verify       URLVerifier
	topOffenders int
}

// New builds an Auditor over the given registry.
func New(reg *registry.Registry, opts ...Option) *Auditor {
	a := &Auditor{reg: reg, topOffenders: 10}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScanArticle checks every citation in the article, structured and in-body,
// against policy. Competitor links are critical, non-approved domains are
// warnings, and a complete absence of government sources is an info-level
// nudge. Findings are returned in a stable order: per-URL violations in
// citation order, then the corpus-level gov nudge.
func (a *Auditor) ScanArticle(ctx context.Context, article model.Article) []model.Violation {
	cited := collectURLs(article)
	if len(cited) == 0 {
		return nil
	}

	liveness := a.probe(ctx, cited)

	var violations []model.Violation
	hasGovSource := false

	for _, c := range cited {
		switch {
		case a.reg.IsCompetitor(c.URL):
			violations = append(violations, model.Violation{
				AlertType:   model.AlertCompetitor,
				Severity:    model.SeverityCritical,
				CitationURL: c.URL,
				Detail:      fmt.Sprintf("links to blacklisted competitor domain %s (%s citation)", rotation.DomainOf(c.URL), c.Source),
			})
		case !a.reg.IsApproved(c.URL):
			violations = append(violations, model.Violation{
				AlertType:   model.AlertNonApproved,
				Severity:    model.SeverityWarning,
				CitationURL: c.URL,
				Detail:      fmt.Sprintf("domain %s is not in the approved registry (%s citation)", rotation.DomainOf(c.URL), c.Source),
			})
		default:
			if a.reg.IsGovernment(c.URL) {
				hasGovSource = true
			}
		}

		if broken, detail := a.isBroken(c, liveness); broken {
			violations = append(violations, model.Violation{
				AlertType:   model.AlertBrokenLink,
				Severity:    model.SeverityWarning,
				CitationURL: c.URL,
				Detail:      detail,
			})
		}
	}

	if !hasGovSource {
		violations = append(violations, model.Violation{
			AlertType: model.AlertMissingGovSource,
			Severity:  model.SeverityInfo,
			Detail:    "article cites no government or official source",
		})
	}

	zap.L().Debug("article scanned",
		zap.String("article_id", article.ID),
		zap.Int("citations", len(cited)),
		zap.Int("violations", len(violations)),
	)
	return violations
}

// probe verifies all cited URLs when a live verifier is configured.
func (a *Auditor) probe(ctx context.Context, cited []citedURL) map[string]verifier.Result {
	if a.verify == nil {
		return nil
	}
	urls := make([]string, len(cited))
	for i, c := range cited {
		urls[i] = c.URL
	}
	return a.verify.VerifyAll(ctx, urls)
}

// isBroken classifies a citation as dead. Live probe results take precedence;
// otherwise the stored verification status of structured citations is
// trusted. Body links without a probe are given the benefit of the doubt.
func (a *Auditor) isBroken(c citedURL, liveness map[string]verifier.Result) (bool, string) {
	if liveness != nil {
		r, ok := liveness[c.URL]
		if !ok {
			return false, ""
		}
		if r.Status == model.VerificationFailed {
			if r.StatusCode != 0 {
				return true, fmt.Sprintf("link probe returned HTTP %d", r.StatusCode)
			}
			return true, "link is unreachable: " + r.Err
		}
		return false, ""
	}
	if c.Source == "structured" && c.Verified == model.VerificationFailed {
		return true, "citation previously failed verification"
	}
	return false, ""
}

// UpsertAlerts replaces the article's unresolved alerts with the fresh
// violation set in one atomic swap. A violation that no longer reproduces
// disappears on the next pass instead of going stale, and a failed write
// leaves the previous alerts intact.
func (a *Auditor) UpsertAlerts(ctx context.Context, store AlertStore, articleID string, violations []model.Violation) error {
	now := time.Now().UTC()
	alerts := make([]model.ComplianceAlert, len(violations))
	for i, v := range violations {
		alerts[i] = model.ComplianceAlert{
			ID:          uuid.NewString(),
			ArticleID:   articleID,
			AlertType:   v.AlertType,
			Severity:    v.Severity,
			CitationURL: v.CitationURL,
			Detail:      v.Detail,
			DetectedAt:  now,
		}
	}

	cleared, err := store.ReplaceUnresolvedAlerts(ctx, articleID, alerts)
	if err != nil {
		return eris.Wrap(err, "audit: replacing alerts")
	}

	if len(alerts) == 0 {
		zap.L().Info("article is compliant",
			zap.String("article_id", articleID),
			zap.Int64("cleared", cleared),
		)
		return nil
	}
	zap.L().Info("alerts upserted",
		zap.String("article_id", articleID),
		zap.Int64("cleared", cleared),
		zap.Int("inserted", len(alerts)),
	)
	return nil
}

// BuildReport aggregates citation compliance across a corpus of articles.
func (a *Auditor) BuildReport(ctx context.Context, articles []model.Article) *model.ComplianceReport {
	report := &model.ComplianceReport{
		ArticlesScanned:   len(articles),
		CategoryBreakdown: make(map[string]int),
		GeneratedAt:       time.Now().UTC(),
	}

	govCount := 0
	offenses := make(map[string]int)

	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		for _, c := range collectURLs(article) {
			report.TotalCitations++
			domain := rotation.DomainOf(c.URL)

			switch {
			case a.reg.IsCompetitor(c.URL):
				report.CompetitorCount++
				offenses[domain]++
			case !a.reg.IsApproved(c.URL):
				report.NonApprovedCount++
				offenses[domain]++
			default:
				report.ApprovedCount++
				if cat, ok := a.reg.Category(c.URL); ok {
					report.CategoryBreakdown[string(cat)]++
				}
				if a.reg.IsGovernment(c.URL) {
					govCount++
				}
			}
		}
	}

	if report.TotalCitations > 0 {
		report.GovSourcePercentage = float64(govCount) / float64(report.TotalCitations) * 100
		score := math.Round(float64(report.ApprovedCount-report.CompetitorCount) / float64(report.TotalCitations) * 100)
		report.ComplianceScore = clampScore(int(score))
	}

	report.TopOffendingDomains = rankOffenders(offenses, a.topOffenders)
	return report
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// rankOffenders sorts offense counts descending, domain name breaking ties
// so report output is deterministic.
func rankOffenders(offenses map[string]int, limit int) []model.DomainOffenses {
	ranked := make([]model.DomainOffenses, 0, len(offenses))
	for domain, count := range offenses {
		ranked = append(ranked, model.DomainOffenses{Domain: domain, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
