package citations

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Candidate is one schema-validated citation suggestion from the search API.
type Candidate struct {
	URL              string  `json:"url"`
	SourceName       string  `json:"sourceName"`
	Description      string  `json:"description"`
	Relevance        string  `json:"relevance"`
	SupportsSentence string  `json:"supportsSentence"`
	SuggestedAnchor  string  `json:"suggestedAnchor"`
	ConfidenceScore  float64 `json:"confidenceScore"`
}

// ParseFailure records one entry the parser discarded, with the reason. The
// search API is untrusted; dropping bad entries beats failing the batch.
type ParseFailure struct {
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// ParseCandidates extracts validated candidates from the raw completion
// text. Tolerates markdown fences, leading prose, and partial garbage;
// returns whatever validates plus a failure record per discarded entry. A
// completely unparseable payload yields zero candidates and one failure.
func ParseCandidates(raw string) ([]Candidate, []ParseFailure) {
	payload := extractJSONArray(raw)
	if payload == "" {
		return nil, []ParseFailure{{Raw: truncate(raw, 200), Reason: "no JSON array found in response"}}
	}

	// First pass: strict array of objects.
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, []ParseFailure{{Raw: truncate(payload, 200), Reason: "malformed JSON array: " + err.Error()}}
	}

	var candidates []Candidate
	var failures []ParseFailure
	for _, entry := range entries {
		var c Candidate
		if err := json.Unmarshal(entry, &c); err != nil {
			failures = append(failures, ParseFailure{Raw: truncate(string(entry), 200), Reason: "entry is not an object: " + err.Error()})
			continue
		}
		if reason := validateCandidate(&c); reason != "" {
			failures = append(failures, ParseFailure{Raw: truncate(string(entry), 200), Reason: reason})
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, failures
}

// validateCandidate normalizes a candidate in place and returns a non-empty
// rejection reason if it is unusable.
func validateCandidate(c *Candidate) string {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		return "missing url"
	}

	parsed, err := url.Parse(c.URL)
	if err != nil {
		return "unparseable url"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "unsupported scheme " + parsed.Scheme
	}
	if parsed.Hostname() == "" {
		return "url has no host"
	}

	if strings.TrimSpace(c.SourceName) == "" {
		c.SourceName = strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	}
	if c.ConfidenceScore < 0 || c.ConfidenceScore > 1 {
		c.ConfidenceScore = 0
	}
	return ""
}

// extractJSONArray locates the outermost JSON array in a blob that may carry
// markdown fences or surrounding prose.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "[")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
