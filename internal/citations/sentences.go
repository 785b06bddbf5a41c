package citations

import (
	"fmt"
	"regexp"
	"strings"
)

// Opportunity is a citation-worthy sentence extracted from the article body.
// Opportunities ride along in the search prompt so the API can target a
// specific claim instead of the article in general.
type Opportunity struct {
	ID       string `json:"id"`
	Sentence string `json:"sentence"`
	Score    int    `json:"score"`
}

// opportunityThreshold is the minimum heuristic score (out of 10) for a
// sentence to be treated as a citation opportunity.
const opportunityThreshold = 5

// maxOpportunities bounds prompt size.
const maxOpportunities = 8

var (
	sentenceSplit = regexp.MustCompile(`[.!?]\s+|\n+`)
	htmlTag       = regexp.MustCompile(`<[^>]+>`)

	statPattern       = regexp.MustCompile(`\d+([.,]\d+)?\s*(%|percent|por ciento)`)
	moneyPattern      = regexp.MustCompile(`[€$£]\s?\d|euros?\b|\d+\s?(eur|gbp|usd)\b`)
	legalPattern      = regexp.MustCompile(`(?i)\b(law|decree|regulation|directive|ley|decreto|normativa|tax|impuesto|visa|permit|nie|itp|ibi|plusval[ií]a|notary|deed|escritura)\b`)
	comparePattern    = regexp.MustCompile(`(?i)\b(more than|less than|higher|lower|compared (to|with)|increase[ds]?|decrease[ds]?|rose|fell|growth|drop|m[aá]s de|menos de)\b`)
	numberPattern     = regexp.MustCompile(`\d{2,}`)
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	attributedPattern = regexp.MustCompile(`(?i)\b(according to|reported|study|survey|estudio|seg[uú]n)\b`)
)

// ScoreSentence rates one sentence 0–10 for citation-worthiness. The scale
// rewards verifiable claims: statistics, legal or regulatory statements,
// comparisons, and monetary figures.
func ScoreSentence(sentence string) int {
	score := 0
	if statPattern.MatchString(sentence) {
		score += 3
	}
	if moneyPattern.MatchString(strings.ToLower(sentence)) {
		score += 3
	}
	if legalPattern.MatchString(sentence) {
		score += 2
	}
	if comparePattern.MatchString(sentence) {
		score += 2
	}
	if attributedPattern.MatchString(sentence) {
		score += 2
	}
	if yearPattern.MatchString(sentence) {
		score++
	}
	if numberPattern.MatchString(sentence) {
		score++
	}
	if score > 10 {
		score = 10
	}
	return score
}

// ExtractOpportunities splits the article body into sentences and returns
// those scoring at or above the opportunity threshold, in document order.
func ExtractOpportunities(body string) []Opportunity {
	plain := htmlTag.ReplaceAllString(body, " ")

	var out []Opportunity
	idx := 0
	for _, raw := range sentenceSplit.Split(plain, -1) {
		s := strings.TrimSpace(raw)
		if len(s) < 30 {
			continue
		}
		idx++
		score := ScoreSentence(s)
		if score < opportunityThreshold {
			continue
		}
		out = append(out, Opportunity{
			ID:       fmt.Sprintf("s%d", idx),
			Sentence: s,
			Score:    score,
		})
		if len(out) >= maxOpportunities {
			break
		}
	}
	return out
}

// promptContext formats opportunities for the search request.
func promptContext(opps []Opportunity) string {
	if len(opps) == 0 {
		return ""
	}
	var b strings.Builder
	for _, o := range opps {
		b.WriteString("[")
		b.WriteString(o.ID)
		b.WriteString("] ")
		b.WriteString(o.Sentence)
		b.WriteString("\n")
	}
	return b.String()
}

// bestOpportunity picks the opportunity whose wording overlaps most with the
// candidate description. Returns nil when nothing overlaps meaningfully.
func bestOpportunity(opps []Opportunity, description string) (*Opportunity, float64) {
	if len(opps) == 0 || description == "" {
		return nil, 0
	}

	descWords := significantWords(description)
	if len(descWords) == 0 {
		return nil, 0
	}

	var best *Opportunity
	bestRatio := 0.0
	for i := range opps {
		sentWords := significantWords(opps[i].Sentence)
		if len(sentWords) == 0 {
			continue
		}
		overlap := 0
		for w := range descWords {
			if _, ok := sentWords[w]; ok {
				overlap++
			}
		}
		ratio := float64(overlap) / float64(len(descWords))
		if ratio > bestRatio {
			bestRatio = ratio
			best = &opps[i]
		}
	}

	if bestRatio < 0.15 {
		return nil, 0
	}
	return best, bestRatio
}

func significantWords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) > 3 {
			out[w] = struct{}{}
		}
	}
	return out
}
