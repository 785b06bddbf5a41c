package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/verifier"
)

type fakeAlertStore struct {
	replacedFor []string
	inserted    []model.ComplianceAlert
	replaceErr  error
}

func (f *fakeAlertStore) ReplaceUnresolvedAlerts(_ context.Context, articleID string, alerts []model.ComplianceAlert) (int64, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	f.replacedFor = append(f.replacedFor, articleID)
	f.inserted = append(f.inserted, alerts...)
	return 2, nil
}

type fakeLinkVerifier struct {
	dead map[string]bool
}

func (f *fakeLinkVerifier) VerifyAll(_ context.Context, urls []string) map[string]verifier.Result {
	out := make(map[string]verifier.Result, len(urls))
	for _, u := range urls {
		if f.dead[u] {
			out[u] = verifier.Result{URL: u, Status: model.VerificationFailed, StatusCode: 404}
			continue
		}
		out[u] = verifier.Result{URL: u, Alive: true, Status: model.VerificationVerified}
	}
	return out
}

func article(citations []model.Citation, body string) model.Article {
	return model.Article{
		ID:                "art-1",
		Headline:          "Buying property in Marbella",
		DetailedContent:   body,
		ExternalCitations: citations,
	}
}

func TestScanArticleCompliant(t *testing.T) {
	a := New(registry.Default())

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://boe.es/doc", SourceName: "BOE"},
		{URL: "https://elpais.com/economia"},
	}, ""))

	// One approved government source present: no violations at all.
	assert.Empty(t, violations)
}

func TestScanArticleCompetitorIsCritical(t *testing.T) {
	a := New(registry.Default())

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://boe.es/doc"},
		{URL: "https://idealista.com/inmueble/99"},
	}, ""))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertCompetitor, violations[0].AlertType)
	assert.Equal(t, model.SeverityCritical, violations[0].Severity)
	assert.Equal(t, "https://idealista.com/inmueble/99", violations[0].CitationURL)
}

func TestScanArticleNonApprovedIsWarning(t *testing.T) {
	a := New(registry.Default())

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://boe.es/doc"},
		{URL: "https://random-seo-farm.net/top10"},
	}, ""))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertNonApproved, violations[0].AlertType)
	assert.Equal(t, model.SeverityWarning, violations[0].Severity)
}

func TestScanArticleMissingGovSourceIsInfo(t *testing.T) {
	a := New(registry.Default())

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://elpais.com/economia"},
		{URL: "https://surinenglish.com/malaga"},
	}, ""))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertMissingGovSource, violations[0].AlertType)
	assert.Equal(t, model.SeverityInfo, violations[0].Severity)
	assert.Empty(t, violations[0].CitationURL)
}

func TestScanArticleEmptyHasNoViolations(t *testing.T) {
	a := New(registry.Default())
	assert.Empty(t, a.ScanArticle(context.Background(), article(nil, "<p>No links here.</p>")))
}

// Raw <a href> tags in the body are scanned alongside structured citations.
func TestScanArticleBodyLinks(t *testing.T) {
	a := New(registry.Default())

	body := `<p>See the <a href="https://boe.es/doc">official bulletin</a> and
this <a href="https://idealista.com/listing">listing</a>, plus an
<a href="/internal/page">internal page</a> and <a href="mailto:x@y.es">mail</a>.</p>`

	violations := a.ScanArticle(context.Background(), article(nil, body))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertCompetitor, violations[0].AlertType)
	assert.Contains(t, violations[0].Detail, "body citation")
}

func TestScanArticleDeduplicatesStructuredAndBody(t *testing.T) {
	a := New(registry.Default())

	body := `<a href="https://idealista.com/x">dup</a>`
	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://idealista.com/x"},
		{URL: "https://boe.es/doc"},
	}, body))

	// The duplicated competitor URL yields one violation, not two.
	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertCompetitor, violations[0].AlertType)
}

func TestScanArticleBrokenLinkProbed(t *testing.T) {
	ver := &fakeLinkVerifier{dead: map[string]bool{"https://boe.es/gone": true}}
	a := New(registry.Default(), WithVerifier(ver))

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://boe.es/gone"},
		{URL: "https://ine.es/stats"},
	}, ""))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertBrokenLink, violations[0].AlertType)
	assert.Equal(t, model.SeverityWarning, violations[0].Severity)
	assert.Contains(t, violations[0].Detail, "404")
}

// Without a live verifier, the stored verification status stands in.
func TestScanArticleBrokenLinkFromStoredStatus(t *testing.T) {
	a := New(registry.Default())

	violations := a.ScanArticle(context.Background(), article([]model.Citation{
		{URL: "https://boe.es/gone", VerificationStatus: model.VerificationFailed},
		{URL: "https://boe.es/doc", VerificationStatus: model.VerificationVerified},
	}, ""))

	require.Len(t, violations, 1)
	assert.Equal(t, model.AlertBrokenLink, violations[0].AlertType)
}

func TestUpsertAlertsReplacesAtomically(t *testing.T) {
	a := New(registry.Default())
	st := &fakeAlertStore{}

	violations := []model.Violation{
		{AlertType: model.AlertCompetitor, Severity: model.SeverityCritical, CitationURL: "https://idealista.com/x"},
		{AlertType: model.AlertMissingGovSource, Severity: model.SeverityInfo},
	}
	require.NoError(t, a.UpsertAlerts(context.Background(), st, "art-1", violations))

	// One replace call carries both the clear and the fresh set.
	assert.Equal(t, []string{"art-1"}, st.replacedFor)
	require.Len(t, st.inserted, 2)
	assert.Equal(t, "art-1", st.inserted[0].ArticleID)
	assert.NotEmpty(t, st.inserted[0].ID)
	assert.False(t, st.inserted[0].DetectedAt.IsZero())
	assert.Nil(t, st.inserted[0].ResolvedAt)
}

// A clean scan still clears stale unresolved alerts.
func TestUpsertAlertsClearsWhenCompliant(t *testing.T) {
	a := New(registry.Default())
	st := &fakeAlertStore{}

	require.NoError(t, a.UpsertAlerts(context.Background(), st, "art-1", nil))
	assert.Equal(t, []string{"art-1"}, st.replacedFor)
	assert.Empty(t, st.inserted)
}

func TestUpsertAlertsStoreFailure(t *testing.T) {
	a := New(registry.Default())
	st := &fakeAlertStore{replaceErr: errors.New("db down")}

	err := a.UpsertAlerts(context.Background(), st, "art-1", []model.Violation{{AlertType: model.AlertCompetitor}})
	assert.Error(t, err)
	assert.Empty(t, st.inserted)
}

func TestBuildReport(t *testing.T) {
	a := New(registry.Default())

	articles := []model.Article{
		article([]model.Citation{
			{URL: "https://boe.es/doc"},         // approved, government
			{URL: "https://elpais.com/a"},       // approved, news
			{URL: "https://idealista.com/x"},    // competitor
			{URL: "https://random-blog.net/p"},  // non-approved
		}, ""),
		article([]model.Citation{
			{URL: "https://ine.es/stats"}, // approved, statistics
		}, ""),
	}

	report := a.BuildReport(context.Background(), articles)

	assert.Equal(t, 2, report.ArticlesScanned)
	assert.Equal(t, 5, report.TotalCitations)
	assert.Equal(t, 3, report.ApprovedCount)
	assert.Equal(t, 1, report.CompetitorCount)
	assert.Equal(t, 1, report.NonApprovedCount)

	// score = round(((3 - 1) / 5) * 100) = 40
	assert.Equal(t, 40, report.ComplianceScore)
	assert.InDelta(t, 20.0, report.GovSourcePercentage, 0.001)

	assert.Equal(t, 1, report.CategoryBreakdown["government"])
	assert.Equal(t, 1, report.CategoryBreakdown["news_media"])
	assert.Equal(t, 1, report.CategoryBreakdown["statistics"])

	require.Len(t, report.TopOffendingDomains, 2)
	// Ties rank alphabetically for deterministic output.
	assert.Equal(t, "idealista.com", report.TopOffendingDomains[0].Domain)
	assert.Equal(t, "random-blog.net", report.TopOffendingDomains[1].Domain)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBuildReportEmptyCorpus(t *testing.T) {
	a := New(registry.Default())
	report := a.BuildReport(context.Background(), nil)

	assert.Zero(t, report.TotalCitations)
	assert.Zero(t, report.ComplianceScore)
	assert.Empty(t, report.TopOffendingDomains)
}

// More competitor links than approved ones would push the raw score below
// zero; it clamps at zero.
func TestBuildReportScoreClampsAtZero(t *testing.T) {
	a := New(registry.Default())

	articles := []model.Article{
		article([]model.Citation{
			{URL: "https://idealista.com/1"},
			{URL: "https://kyero.com/2"},
			{URL: "https://boe.es/doc"},
		}, ""),
	}
	report := a.BuildReport(context.Background(), articles)
	assert.Equal(t, 0, report.ComplianceScore)
}

func TestExtractBodyLinks(t *testing.T) {
	body := `<p><a href="https://boe.es/a">one</a>
<a href="http://ine.es/b">two</a>
<a href="/relative">three</a>
<a href="mailto:a@b.es">four</a>
<a href="#anchor">five</a></p>`

	links := extractBodyLinks(body)
	assert.Equal(t, []string{"https://boe.es/a", "http://ine.es/b"}, links)
}

func TestExtractBodyLinksEmptyAndGarbage(t *testing.T) {
	assert.Empty(t, extractBodyLinks(""))
	assert.Empty(t, extractBodyLinks("plain text, no markup"))
}
