// Package citations implements the cascading batch search that discovers,
// filters, scores, deduplicates, and verifies external citations for an
// article. Registry tiers are searched strictly in priority order; later
// tiers are only consulted while the target count is unmet, which is how
// the authority-priority policy is enforced rather than just preferred.
package citations

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/authority"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/resilience"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/rotation"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/verifier"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/pkg/websearch"
)

// ArticleStore is the slice of persistence the orchestrator needs when asked
// to persist accepted citations.
type ArticleStore interface {
	ReplaceCitations(ctx context.Context, articleID string, citations []model.Citation, backupReason string) error
}

// URLVerifier abstracts the liveness checker for tests.
type URLVerifier interface {
	VerifyAll(ctx context.Context, urls []string) map[string]verifier.Result
	VerifyCitation(ctx context.Context, c model.Citation, originalWasPDF bool) verifier.Result
}

// Config tunes the orchestration loop.
type Config struct {
	// MaxTiers caps how many registry tiers one run may search. 0 = all.
	MaxTiers int
	// UnderutilizedLimit is how many globally underused domains to fetch
	// for rotation biasing. Default 50.
	UnderutilizedLimit int
	// SearchRatePerSec throttles calls to the paid search API. Default 1.
	SearchRatePerSec float64
	// Retry is the per-tier search retry policy.
	Retry resilience.RetryConfig
	// Circuit protects against a dead upstream burning calls on every tier.
	Circuit resilience.CircuitBreakerConfig
}

// Options modify a single discovery run.
type Options struct {
	// TargetCount overrides the funnel-stage default when positive.
	TargetCount int
	// Persist writes accepted citations to the article store.
	Persist bool
}

// Orchestrator runs citation discovery.
type Orchestrator struct {
	search   websearch.Client
	reg      *registry.Registry
	scorer   *authority.Scorer
	verify   URLVerifier
	tracker  *rotation.Tracker
	articles ArticleStore

	cfg     Config
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
}

// New wires an Orchestrator. tracker and articles may be nil: rotation
// biasing and persistence are then skipped, which keeps tests lean.
func New(search websearch.Client, reg *registry.Registry, scorer *authority.Scorer, verify URLVerifier, tracker *rotation.Tracker, articles ArticleStore, cfg Config) *Orchestrator {
	if cfg.UnderutilizedLimit <= 0 {
		cfg.UnderutilizedLimit = 50
	}
	if cfg.SearchRatePerSec <= 0 {
		cfg.SearchRatePerSec = 1
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = resilience.DefaultRetryConfig()
	}
	cfg.Retry.ShouldRetry = retryableSearchError
	cfg.Retry.OnRetry = resilience.RetryLogger("websearch", "search citations")

	return &Orchestrator{
		search:   search,
		reg:      reg,
		scorer:   scorer,
		verify:   verify,
		tracker:  tracker,
		articles: articles,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.SearchRatePerSec), 1),
		breaker:  resilience.NewCircuitBreaker(cfg.Circuit),
	}
}

// Discover produces up to targetCount verified, deduplicated,
// policy-compliant citations for the article. Partial results are a valid
// outcome, reported honestly via the result status.
func (o *Orchestrator) Discover(ctx context.Context, article model.Article, opts Options) (*model.SearchResult, error) {
	target := opts.TargetCount
	if target <= 0 {
		target = article.FunnelStage.TargetCitations()
	}

	log := zap.L().With(
		zap.String("article_id", article.ID),
		zap.Int("target", target),
	)

	opportunities := ExtractOpportunities(article.DetailedContent)
	log.Debug("extracted citation opportunities", zap.Int("count", len(opportunities)))

	used, underutilized := o.rotationState(ctx, article.ID)

	acc := newAccumulator()
	tiersSearched := 0
	tiers := o.reg.SearchTiers()
	if o.cfg.MaxTiers > 0 && len(tiers) > o.cfg.MaxTiers {
		tiers = tiers[:o.cfg.MaxTiers]
	}

	for _, tier := range tiers {
		if acc.len() >= target {
			break
		}
		if ctx.Err() != nil {
			break
		}

		domains := rotation.FilterAndPrioritize(tier.Domains, used, underutilized)
		if len(domains) == 0 {
			continue
		}
		if len(domains) > websearch.MaxDomainFilter {
			domains = domains[:websearch.MaxDomainFilter]
		}

		tiersSearched++
		resp, err := o.searchTier(ctx, websearch.Request{
			Topic:         article.Headline,
			LanguageHint:  languageHint(article.Language),
			DomainFilter:  domains,
			PromptContext: promptContext(opportunities),
		})
		if err != nil {
			// One dead tier never aborts the run; the next tier may fill
			// the gap.
			log.Warn("tier search failed",
				zap.String("tier", tier.ID),
				zap.Error(err),
			)
			continue
		}

		candidates, failures := ParseCandidates(resp.Content)
		for _, f := range failures {
			log.Debug("discarded search entry",
				zap.String("tier", tier.ID),
				zap.String("reason", f.Reason),
			)
		}

		accepted := 0
		for _, cand := range candidates {
			if c, ok := o.admit(cand, tier.ID, article.Language, opportunities); ok {
				if acc.add(c) {
					accepted++
				}
			}
		}
		log.Info("tier searched",
			zap.String("tier", tier.ID),
			zap.Int("candidates", len(candidates)),
			zap.Int("accepted", accepted),
			zap.Int("accumulated", acc.len()),
		)
	}

	citations := acc.list()
	if len(citations) == 0 {
		reason := fmt.Sprintf("no usable citations across %d tier searches", tiersSearched)
		log.Warn("discovery failed", zap.String("reason", reason))
		return &model.SearchResult{
			Citations:     []model.Citation{},
			Status:        model.SearchFailed,
			Reason:        reason,
			TiersSearched: tiersSearched,
		}, nil
	}

	// Rank by authority and keep the best targetCount before paying for
	// verification.
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].AuthorityScore > citations[j].AuthorityScore
	})
	totalFound := len(citations)
	if len(citations) > target {
		citations = citations[:target]
	}

	citations = o.verifyAndRescore(ctx, article, citations)

	verifiedCount := 0
	for _, c := range citations {
		if c.VerificationStatus == model.VerificationVerified {
			verifiedCount++
		}
	}

	status := model.SearchPartial
	if len(citations) >= target {
		status = model.SearchSuccess
	}

	o.recordAcceptance(ctx, article.ID, citations)

	if opts.Persist && o.articles != nil {
		if err := o.articles.ReplaceCitations(ctx, article.ID, citations, "citation discovery"); err != nil {
			return nil, err
		}
	}

	log.Info("discovery complete",
		zap.String("status", string(status)),
		zap.Int("citations", len(citations)),
		zap.Int("verified", verifiedCount),
		zap.Int("tiers_searched", tiersSearched),
	)

	return &model.SearchResult{
		Citations:     citations,
		Status:        status,
		TotalFound:    totalFound,
		VerifiedCount: verifiedCount,
		TiersSearched: tiersSearched,
	}, nil
}

// admit runs the per-candidate filter pipeline: approval, competitor check,
// authority scoring, and claim targeting. The competitor check runs even for
// approved domains so a misconfigured registry cannot sneak a blacklisted
// host through.
func (o *Orchestrator) admit(cand Candidate, tierID, lang string, opps []Opportunity) (model.Citation, bool) {
	if !o.reg.IsApproved(cand.URL) {
		return model.Citation{}, false
	}
	if o.reg.IsCompetitor(cand.URL) {
		zap.L().Warn("search returned competitor url", zap.String("url", cand.URL))
		return model.Citation{}, false
	}

	scores := o.scorer.Score(authority.Input{
		URL:         cand.URL,
		SourceName:  cand.SourceName,
		Description: cand.Description,
	})

	c := model.Citation{
		URL:            cand.URL,
		SourceName:     cand.SourceName,
		Description:    cand.Description,
		Relevance:      cand.Relevance,
		AuthorityScore: scores.Total,
		AuthorityTier:  scores.Tier,
		Language:       lang,
		BatchTier:      tierID,
	}

	if cand.SupportsSentence != "" {
		for _, opp := range opps {
			if opp.ID == cand.SupportsSentence {
				c.TargetSentenceID = opp.ID
				c.SuggestedAnchor = cand.SuggestedAnchor
				c.ConfidenceScore = cand.ConfidenceScore
				break
			}
		}
	}
	if c.TargetSentenceID == "" {
		if opp, ratio := bestOpportunity(opps, cand.Description); opp != nil {
			c.TargetSentenceID = opp.ID
			c.SuggestedAnchor = cand.SuggestedAnchor
			c.ConfidenceScore = ratio
		}
	}

	return c, true
}

// verifyAndRescore fans liveness checks out over the final set, folds the
// accessibility component into each score, and re-sorts so verified
// citations lead, unverified follow, failed trail — authority score breaking
// ties within each bucket.
func (o *Orchestrator) verifyAndRescore(ctx context.Context, article model.Article, citations []model.Citation) []model.Citation {
	if o.verify == nil || len(citations) == 0 {
		return citations
	}

	// When the article already cited a PDF, a PDF replacement inherits the
	// probe exemption: PDF endpoints routinely reject both HEAD and GET.
	priorPDF := false
	for _, c := range article.ExternalCitations {
		if c.IsPDF() {
			priorPDF = true
			break
		}
	}

	results := make(map[string]verifier.Result, len(citations))
	urls := make([]string, 0, len(citations))
	for _, c := range citations {
		if priorPDF && c.IsPDF() {
			results[c.URL] = o.verify.VerifyCitation(ctx, c, true)
			continue
		}
		urls = append(urls, c.URL)
	}
	for u, r := range o.verify.VerifyAll(ctx, urls) {
		results[u] = r
	}

	for i := range citations {
		r, ok := results[citations[i].URL]
		if !ok {
			citations[i].VerificationStatus = model.VerificationUnverified
			continue
		}
		citations[i].VerificationStatus = r.Status

		rescored := o.scorer.Score(authority.Input{
			URL:          citations[i].URL,
			SourceName:   citations[i].SourceName,
			Description:  citations[i].Description,
			IsAccessible: r.Alive,
		})
		citations[i].AuthorityScore = rescored.Total
		citations[i].AuthorityTier = rescored.Tier
	}

	sort.SliceStable(citations, func(i, j int) bool {
		ri, rj := statusRank(citations[i].VerificationStatus), statusRank(citations[j].VerificationStatus)
		if ri != rj {
			return ri < rj
		}
		return citations[i].AuthorityScore > citations[j].AuthorityScore
	})
	return citations
}

func statusRank(s model.VerificationStatus) int {
	switch s {
	case model.VerificationVerified:
		return 0
	case model.VerificationUnverified:
		return 1
	default:
		return 2
	}
}

// rotationState loads the rotation bias inputs. Failures degrade to empty
// sets: rotation is a preference, not a prerequisite.
func (o *Orchestrator) rotationState(ctx context.Context, articleID string) (map[string]struct{}, []string) {
	if o.tracker == nil {
		return nil, nil
	}

	used, err := o.tracker.ArticleUsedDomains(ctx, articleID)
	if err != nil {
		zap.L().Warn("rotation: loading used domains failed", zap.Error(err))
		used = nil
	}
	underutilized, err := o.tracker.UnderutilizedDomains(ctx, o.cfg.UnderutilizedLimit)
	if err != nil {
		zap.L().Warn("rotation: loading underutilized domains failed", zap.Error(err))
		underutilized = nil
	}
	return used, underutilized
}

// recordAcceptance appends usage ledger rows for accepted citations.
// Bookkeeping failures are swallowed inside the tracker.
func (o *Orchestrator) recordAcceptance(ctx context.Context, articleID string, citations []model.Citation) {
	if o.tracker == nil || articleID == "" {
		return
	}
	for _, c := range citations {
		o.tracker.RecordUsage(ctx, articleID, c.URL, c.SourceName)
	}
}

// searchTier issues one rate-limited, circuit-protected, retried search call.
func (o *Orchestrator) searchTier(ctx context.Context, req websearch.Request) (*websearch.Response, error) {
	return resilience.DoVal(ctx, o.cfg.Retry, func(ctx context.Context) (*websearch.Response, error) {
		return resilience.ExecuteVal(ctx, o.breaker, func(ctx context.Context) (*websearch.Response, error) {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return o.search.SearchCitations(ctx, req)
		})
	})
}

// retryableSearchError retries transient transport errors and 429/5xx API
// statuses. An open circuit is never retried: it exists to stop calls.
func retryableSearchError(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	var apiErr *websearch.APIError
	if errors.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
	}
	return resilience.IsTransient(err)
}

// languageHint normalizes an article language code to its base language
// ("en-GB" → "en"). Unparseable codes pass through untouched.
func languageHint(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == language.No {
		return code
	}
	return base.String()
}
