package citations

import (
	"net/url"
	"strings"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// NormalizeURL reduces a URL to its dedupe key: lowercased scheme, host, and
// path with the trailing slash stripped. Query strings and fragments are
// ignored, so tracking parameters never defeat deduplication.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Hostname() == "" {
		return strings.ToLower(strings.TrimRight(strings.TrimSpace(rawURL), "/"))
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	path := strings.TrimRight(strings.ToLower(parsed.EscapedPath()), "/")
	return scheme + "://" + host + path
}

// accumulator collects citations across tiers, deduplicating by normalized
// URL. True duplicates merge: descriptions are combined and the higher
// authority score wins, so no information is discarded.
type accumulator struct {
	byKey map[string]*model.Citation
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{byKey: make(map[string]*model.Citation)}
}

// add inserts or merges one citation. Reports whether the citation was new.
func (a *accumulator) add(c model.Citation) bool {
	key := NormalizeURL(c.URL)

	existing, ok := a.byKey[key]
	if !ok {
		copied := c
		a.byKey[key] = &copied
		a.order = append(a.order, key)
		return true
	}

	// Merge: keep the higher-scored entry's identity, fold in the other
	// description.
	if c.AuthorityScore > existing.AuthorityScore {
		merged := c
		if existing.Description != "" && !strings.Contains(merged.Description, existing.Description) {
			merged.Description = strings.TrimSpace(merged.Description + " " + existing.Description)
		}
		if merged.TargetSentenceID == "" {
			merged.TargetSentenceID = existing.TargetSentenceID
			merged.SuggestedAnchor = existing.SuggestedAnchor
			merged.ConfidenceScore = existing.ConfidenceScore
		}
		*existing = merged
		return false
	}

	if c.Description != "" && !strings.Contains(existing.Description, c.Description) {
		existing.Description = strings.TrimSpace(existing.Description + " " + c.Description)
	}
	if existing.TargetSentenceID == "" && c.TargetSentenceID != "" {
		existing.TargetSentenceID = c.TargetSentenceID
		existing.SuggestedAnchor = c.SuggestedAnchor
		existing.ConfidenceScore = c.ConfidenceScore
	}
	return false
}

func (a *accumulator) len() int {
	return len(a.byKey)
}

// list returns the accumulated citations in insertion order.
func (a *accumulator) list() []model.Citation {
	out := make([]model.Citation, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.byKey[key])
	}
	return out
}
