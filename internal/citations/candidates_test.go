package citations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidatesClean(t *testing.T) {
	raw := `[
		{"url": "https://boe.es/doc", "sourceName": "BOE", "description": "Official bulletin", "relevance": "high", "supportsSentence": "s2", "suggestedAnchor": "official decree", "confidenceScore": 0.9},
		{"url": "https://ine.es/stats", "sourceName": "INE", "description": "National statistics"}
	]`

	candidates, failures := ParseCandidates(raw)
	require.Len(t, candidates, 2)
	assert.Empty(t, failures)

	assert.Equal(t, "https://boe.es/doc", candidates[0].URL)
	assert.Equal(t, "s2", candidates[0].SupportsSentence)
	assert.InDelta(t, 0.9, candidates[0].ConfidenceScore, 0.001)
}

func TestParseCandidatesMarkdownFenced(t *testing.T) {
	raw := "Here are the citations you asked for:\n```json\n[{\"url\": \"https://boe.es/doc\", \"sourceName\": \"BOE\"}]\n```\nLet me know if you need more."

	candidates, failures := ParseCandidates(raw)
	require.Len(t, candidates, 1)
	assert.Empty(t, failures)
	assert.Equal(t, "BOE", candidates[0].SourceName)
}

func TestParseCandidatesProseWrapped(t *testing.T) {
	raw := `Sure! Based on my search: [{"url": "https://ine.es/p", "sourceName": "INE"}] — those are the best matches.`

	candidates, failures := ParseCandidates(raw)
	require.Len(t, candidates, 1)
	assert.Empty(t, failures)
}

func TestParseCandidatesDropsInvalidEntries(t *testing.T) {
	raw := `[
		{"url": "https://boe.es/doc", "sourceName": "BOE"},
		{"sourceName": "no url here"},
		{"url": "ftp://files.example.com/doc"},
		{"url": "not a url at all %%%"},
		"just a string"
	]`

	candidates, failures := ParseCandidates(raw)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://boe.es/doc", candidates[0].URL)

	require.Len(t, failures, 4)
	reasons := make([]string, len(failures))
	for i, f := range failures {
		reasons[i] = f.Reason
	}
	assert.Contains(t, reasons[0], "missing url")
	assert.Contains(t, reasons[1], "unsupported scheme ftp")
}

func TestParseCandidatesNoArray(t *testing.T) {
	candidates, failures := ParseCandidates("I could not find any suitable citations for this topic.")
	assert.Empty(t, candidates)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "no JSON array")
}

func TestParseCandidatesMalformedArray(t *testing.T) {
	candidates, failures := ParseCandidates(`[{"url": "https://boe.es", unquoted}]`)
	assert.Empty(t, candidates)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "malformed JSON array")
}

func TestParseCandidatesEmptyArray(t *testing.T) {
	candidates, failures := ParseCandidates("[]")
	assert.Empty(t, candidates)
	assert.Empty(t, failures)
}

func TestValidateCandidateDefaults(t *testing.T) {
	c := Candidate{URL: " https://www.Sur.es/news ", ConfidenceScore: 3.5}
	reason := validateCandidate(&c)

	assert.Empty(t, reason)
	assert.Equal(t, "https://www.Sur.es/news", c.URL)
	assert.Equal(t, "sur.es", c.SourceName)
	assert.Zero(t, c.ConfidenceScore)
}

func TestExtractJSONArrayNestedBrackets(t *testing.T) {
	raw := `[{"url": "https://a.es", "description": "rates [2024] overview"}] trailing [ignored`
	got := extractJSONArray(raw)
	assert.Equal(t, `[{"url": "https://a.es", "description": "rates [2024] overview"}]`, got)
}

func TestExtractJSONArrayUnterminated(t *testing.T) {
	assert.Empty(t, extractJSONArray(`[{"url": "https://a.es"`))
}
