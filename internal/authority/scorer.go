// Package authority scores citation candidates 0–100 across four weighted
// components: domain class, content quality, accessibility, and regional
// relevance. Scoring is deterministic and side-effect-free so identical
// input always produces identical output.
package authority

import (
	"regexp"
	"strings"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
)

// Input is everything the scorer looks at for one candidate.
type Input struct {
	URL          string
	SourceName   string
	Description  string
	IsAccessible bool
}

// Scores is the component breakdown plus the derived total and tier.
type Scores struct {
	DomainClass    int                 `json:"domainClass"`    // 0–40
	ContentQuality int                 `json:"contentQuality"` // 0–30
	Accessibility  int                 `json:"accessibility"`  // 0–20
	Relevance      int                 `json:"relevance"`      // 0–10
	Total          int                 `json:"total"`          // 0–100
	Tier           model.AuthorityTier `json:"tier"`
}

// Component weights for the domain-class ladder. Government and legal
// sources must outrank commercial or lifestyle sources even when the latter
// are topically closer — this ladder is the E-E-A-T policy in numbers.
const (
	weightGovTLD        = 40
	weightIntlOrg       = 38
	weightOtherGov      = 37
	weightMajorNews     = 28
	weightLegalProf     = 26
	weightNonProfit     = 24
	weightTourismBoard  = 23
	weightGenericDotNet = 20
	weightFloor         = 12
)

var (
	govTLDPattern  = regexp.MustCompile(`(?i)(\.gob\.es|\.gov(\.[a-z]{2})?$|\.gov/|europa\.eu|\.junta-andalucia\.es)`)
	intlOrgPattern = regexp.MustCompile(`(?i)(oecd\.org|imf\.org|worldbank\.org|un\.org|who\.int|unwto\.org|bis\.org|wto\.org|\.int$|\.int/)`)
	otherGovHints  = []string{".gouv.fr", "government.", ".overheid.", "belastingdienst", "seg-social", "poderjudicial"}

	majorNewsHosts = []string{
		"elpais.com", "elmundo.es", "abc.es", "lavanguardia.com", "reuters.com",
		"bbc.com", "bbc.co.uk", "theguardian.com", "ft.com", "bloomberg.com",
		"nytimes.com", "economist.com", "expansion.com", "eleconomista.es",
	}

	legalProfHints = []string{
		"abogacia", "notariado", "registradores", "colegio", "icam", "bar association",
		"law society", "rics.org", "cgate",
	}

	tourismBoardHints = []string{
		"spain.info", "andalucia.org", "visitcostadelsol", "malagaturismo",
		"turismo", "visit",
	}

	// Costa del Sol relevance ladder, most specific first.
	relevanceCostaDelSol = regexp.MustCompile(`(?i)(costa del sol|marbella|fuengirola|mijas|estepona|benalm[aá]dena|torremolinos|nerja|benahav[ií]s|puerto ban[uú]s)`)
	relevanceRegion      = regexp.MustCompile(`(?i)(m[aá]laga|andaluc[ií]a|andalusia|sotogrande|axarqu[ií]a)`)
	relevanceCountry     = regexp.MustCompile(`(?i)(spain|spanish|espa[ñn]a|espa[ñn]ol)`)
	relevanceContinent   = regexp.MustCompile(`(?i)(europe|european|\beu\b|schengen|eurozone)`)

	actionablePattern = regexp.MustCompile(`(?i)(how to|step[- ]by[- ]step|guide|requirements|checklist|procedure|deadline|application)`)
	marketingPattern  = regexp.MustCompile(`(?i)(buy now|contact us|best price|limited offer|sign up today|exclusive deal|book now)`)
)

// Scorer computes authority scores. The registry is consulted only for
// domain-class weighting; scoring never makes external calls.
type Scorer struct {
	reg *registry.Registry
}

// New creates a Scorer backed by the given registry.
func New(reg *registry.Registry) *Scorer {
	return &Scorer{reg: reg}
}

// Score computes the full component breakdown for one candidate.
func (s *Scorer) Score(in Input) Scores {
	sc := Scores{
		DomainClass:    s.domainClass(in.URL),
		ContentQuality: contentQuality(in.SourceName, in.Description),
		Relevance:      relevance(in.URL + " " + in.SourceName + " " + in.Description),
	}
	if in.IsAccessible {
		sc.Accessibility = 20
	}

	sc.Total = sc.DomainClass + sc.ContentQuality + sc.Accessibility + sc.Relevance
	if sc.Total > 100 {
		sc.Total = 100
	}
	sc.Tier = TierFor(sc.Total)
	return sc
}

// TierFor maps a total score to its authority tier.
func TierFor(total int) model.AuthorityTier {
	switch {
	case total >= 70:
		return model.TierHigh
	case total >= 40:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

func (s *Scorer) domainClass(rawURL string) int {
	lower := strings.ToLower(rawURL)

	switch {
	case govTLDPattern.MatchString(lower):
		return weightGovTLD
	case intlOrgPattern.MatchString(lower):
		return weightIntlOrg
	case containsAny(lower, otherGovHints...):
		return weightOtherGov
	}

	if s.reg != nil {
		if cat, ok := s.reg.Category(rawURL); ok {
			switch cat {
			case registry.CategoryGovernment, registry.CategoryRegionalGovernment,
				registry.CategoryMunicipal, registry.CategoryTax:
				return weightOtherGov
			case registry.CategoryLegal, registry.CategoryProfessional:
				return weightLegalProf
			case registry.CategoryNewsMedia, registry.CategoryInternationalNews,
				registry.CategoryBusinessMedia:
				return weightMajorNews
			case registry.CategoryTourism:
				return weightTourismBoard
			}
		}
	}

	switch {
	case hostMatchesAny(lower, majorNewsHosts):
		return weightMajorNews
	case containsAny(lower, legalProfHints...):
		return weightLegalProf
	case strings.Contains(lower, ".org"):
		return weightNonProfit
	case containsAny(lower, tourismBoardHints...):
		return weightTourismBoard
	case strings.Contains(lower, ".net"):
		return weightGenericDotNet
	default:
		return weightFloor
	}
}

func contentQuality(sourceName, description string) int {
	combined := strings.ToLower(sourceName + " " + description)
	score := 0

	switch {
	case containsAny(combined, "official", "ministry", "ministerio", "government", "gobierno", "junta de"):
		score += 15
	case containsAny(combined, "legal", "law", "notary", "notario", "attorney", "solicitor", "professional"):
		score += 12
	case containsAny(combined, "association", "asociación", "federation", "college", "colegio", "institute"):
		score += 10
	case containsAny(combined, "news", "noticias", "press", "prensa", "journal"):
		score += 8
	}

	switch {
	case len(description) > 150:
		score += 5
	case len(description) > 80:
		score += 3
	}

	if actionablePattern.MatchString(combined) {
		score += 5
	}
	if marketingPattern.MatchString(combined) {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 30 {
		score = 30
	}
	return score
}

func relevance(text string) int {
	switch {
	case relevanceCostaDelSol.MatchString(text):
		return 10
	case relevanceRegion.MatchString(text):
		return 9
	case relevanceCountry.MatchString(text):
		return 8
	case relevanceContinent.MatchString(text):
		return 6
	default:
		return 5
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hostMatchesAny(lowerURL string, hosts []string) bool {
	for _, h := range hosts {
		if strings.Contains(lowerURL, h) {
			return true
		}
	}
	return false
}
