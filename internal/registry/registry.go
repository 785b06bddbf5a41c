// Package registry holds the curated allow-list of citable domains, the
// competitor blacklist, and the tier partitioning the search orchestrator
// iterates. A Registry is immutable once built and safe for concurrent use.
package registry

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// Category is the topical bucket a domain belongs to. Every approved domain
// belongs to exactly one category.
type Category string

const (
	CategoryGovernment         Category = "government"
	CategoryRegionalGovernment Category = "regional_government"
	CategoryMunicipal          Category = "municipal"
	CategoryEUInstitutions     Category = "eu_institutions"
	CategoryInternationalOrgs  Category = "international_orgs"
	CategoryLegal              Category = "legal"
	CategoryFinance            Category = "finance"
	CategoryTax                Category = "tax"
	CategoryStatistics         Category = "statistics"
	CategoryPropertyData       Category = "property_data"
	CategoryProfessional       Category = "professional_associations"
	CategoryNewsMedia          Category = "news_media"
	CategoryInternationalNews  Category = "international_news"
	CategoryBusinessMedia      Category = "business_media"
	CategoryEducation          Category = "education"
	CategoryHealthcare         Category = "healthcare"
	CategoryExpatResources     Category = "expat_resources"
	CategoryTransport          Category = "transport"
	CategoryEnvironment        Category = "environment"
	CategoryTourism            Category = "tourism"
	CategoryLifestyle          Category = "lifestyle"
)

// categoryRank orders categories for search-tier construction: highest
// authority classes first, tourism and lifestyle last. Later tiers are only
// consulted when earlier ones fail to fill the target count, so this order
// is the E-E-A-T policy itself, not a cosmetic sort.
var categoryRank = map[Category]int{
	CategoryGovernment:         0,
	CategoryRegionalGovernment: 1,
	CategoryEUInstitutions:     2,
	CategoryTax:                3,
	CategoryLegal:              4,
	CategoryMunicipal:          5,
	CategoryFinance:            6,
	CategoryStatistics:         7,
	CategoryInternationalOrgs:  8,
	CategoryPropertyData:       9,
	CategoryProfessional:       10,
	CategoryNewsMedia:          11,
	CategoryInternationalNews:  12,
	CategoryBusinessMedia:      13,
	CategoryEducation:          14,
	CategoryHealthcare:         15,
	CategoryExpatResources:     16,
	CategoryTransport:          17,
	CategoryEnvironment:        18,
	CategoryTourism:            19,
	CategoryLifestyle:          20,
}

// categoryTrust maps each category to the trust score recorded for its
// member domains on bulk load.
var categoryTrust = map[Category]int{
	CategoryGovernment:         95,
	CategoryRegionalGovernment: 92,
	CategoryEUInstitutions:     94,
	CategoryTax:                94,
	CategoryLegal:              88,
	CategoryMunicipal:          90,
	CategoryFinance:            86,
	CategoryStatistics:         90,
	CategoryInternationalOrgs:  90,
	CategoryPropertyData:       75,
	CategoryProfessional:       80,
	CategoryNewsMedia:          70,
	CategoryInternationalNews:  72,
	CategoryBusinessMedia:      68,
	CategoryEducation:          78,
	CategoryHealthcare:         76,
	CategoryExpatResources:     65,
	CategoryTransport:          70,
	CategoryEnvironment:        72,
	CategoryTourism:            60,
	CategoryLifestyle:          50,
}

// maxTierSize is the external search API's hard cap on domain filters per
// request.
const maxTierSize = 20

// Entry is one allow-listed domain. Domain is a bare hostname, optionally
// with a path prefix for path-scoped approval ("ec.europa.eu/eurostat").
type Entry struct {
	Domain   string
	Category Category
}

// Tier is one ordered batch of domains for a single search call.
type Tier struct {
	ID       string
	Priority int
	Label    string
	Domains  []string
}

// Registry is the immutable domain policy object. Build it once at process
// start and pass it to every component that needs membership lookups.
type Registry struct {
	entries     []Entry
	hostExact   map[string]Entry   // bare-host entries
	pathScoped  []Entry            // entries carrying a path prefix
	competitors []string           // normalized blacklist hosts
	tiers       []Tier
}

// Default builds a Registry from the compiled-in domain lists.
func Default() *Registry {
	r, err := New(defaultEntries, defaultCompetitors)
	if err != nil {
		// The compiled-in lists are validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}

// New builds a Registry from explicit entries and a competitor blacklist.
func New(entries []Entry, competitors []string) (*Registry, error) {
	r := &Registry{
		hostExact: make(map[string]Entry, len(entries)),
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		d := normalizeDomain(e.Domain)
		if d == "" {
			return nil, eris.Errorf("registry: empty domain in category %s", e.Category)
		}
		if seen[d] {
			return nil, eris.Errorf("registry: duplicate domain %s", d)
		}
		if _, ok := categoryRank[e.Category]; !ok {
			return nil, eris.Errorf("registry: unknown category %q for %s", e.Category, d)
		}
		seen[d] = true

		e.Domain = d
		r.entries = append(r.entries, e)
		if strings.Contains(d, "/") {
			r.pathScoped = append(r.pathScoped, e)
		} else {
			r.hostExact[d] = e
		}
	}

	for _, c := range competitors {
		n := normalizeDomain(c)
		if n != "" {
			r.competitors = append(r.competitors, n)
		}
	}

	r.tiers = buildTiers(r.entries)
	return r, nil
}

// FromStored rebuilds a Registry from persisted entries, e.g. after an
// administrative bulk load.
func FromStored(entries []model.RegistryEntry, competitors []string) (*Registry, error) {
	conv := make([]Entry, 0, len(entries))
	for _, e := range entries {
		conv = append(conv, Entry{Domain: e.Domain, Category: Category(e.Category)})
	}
	return New(conv, competitors)
}

// IsApproved reports whether the URL's host matches an allow-list entry:
// exact host, subdomain of an entry, or (for path-scoped entries) host plus
// path prefix. Malformed URLs are unapproved, never an error.
func (r *Registry) IsApproved(rawURL string) bool {
	_, ok := r.lookup(rawURL)
	return ok
}

// Category returns the owning category for an approved URL.
func (r *Registry) Category(rawURL string) (Category, bool) {
	e, ok := r.lookup(rawURL)
	if !ok {
		return "", false
	}
	return e.Category, true
}

// IsCompetitor matches the normalized host against the blacklist with a
// bidirectional substring check, so subdomains and partial variants are
// caught. A blacklist entry that happens to be a substring of an unrelated
// legitimate domain will false-positive; that trade-off is intentional and
// pinned by tests.
func (r *Registry) IsCompetitor(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, c := range r.competitors {
		if strings.Contains(host, c) || strings.Contains(c, host) {
			return true
		}
	}
	return false
}

// IsGovernment reports whether the URL belongs to a government-class source.
// The verifier uses this for its leniency rules; the auditor for the
// missing-government-source nudge.
func (r *Registry) IsGovernment(rawURL string) bool {
	if cat, ok := r.Category(rawURL); ok {
		switch cat {
		case CategoryGovernment, CategoryRegionalGovernment, CategoryMunicipal,
			CategoryEUInstitutions, CategoryTax:
			return true
		}
	}
	return IsGovernmentHost(rawURL)
}

// IsGovernmentHost checks TLD patterns alone, without registry membership.
func IsGovernmentHost(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	return strings.HasSuffix(host, ".gob.es") ||
		strings.HasSuffix(host, ".gov") ||
		strings.Contains(host, ".gov.") ||
		strings.HasSuffix(host, "europa.eu") ||
		strings.HasSuffix(host, ".junta-andalucia.es") ||
		strings.HasSuffix(host, ".seg-social.es")
}

// SearchTiers returns the registry partitioned into priority-ordered batches
// of at most 20 domains each.
func (r *Registry) SearchTiers() []Tier {
	return r.tiers
}

// Entries exports the registry rows for the administrative bulk-load path.
func (r *Registry) Entries() []model.RegistryEntry {
	out := make([]model.RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		tier := ""
		for _, t := range r.tiers {
			for _, d := range t.Domains {
				if d == e.Domain {
					tier = t.ID
					break
				}
			}
		}
		out = append(out, model.RegistryEntry{
			Domain:     e.Domain,
			Category:   string(e.Category),
			TrustScore: categoryTrust[e.Category],
			SearchTier: tier,
		})
	}
	return out
}

// Competitors returns the normalized blacklist.
func (r *Registry) Competitors() []string {
	return r.competitors
}

// Len returns the number of allow-listed domains.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) lookup(rawURL string) (Entry, bool) {
	host, path := hostAndPath(rawURL)
	if host == "" {
		return Entry{}, false
	}

	// Path-scoped entries win over broader host matches. The prefix must end
	// on a path-segment boundary so "ec.europa.eu/eurostat" cannot claim
	// "ec.europa.eu/eurostatistics".
	full := host + path
	for _, e := range r.pathScoped {
		if !strings.HasPrefix(full, e.Domain) {
			continue
		}
		if len(full) == len(e.Domain) || full[len(e.Domain)] == '/' {
			return e, true
		}
	}

	if e, ok := r.hostExact[host]; ok {
		return e, true
	}

	// Subdomain walk: a.b.example.com matches an entry for example.com.
	for idx := strings.Index(host, "."); idx >= 0; idx = strings.Index(host, ".") {
		host = host[idx+1:]
		if e, ok := r.hostExact[host]; ok {
			return e, true
		}
	}

	return Entry{}, false
}

// tierIDs names the ordered search batches. Batch tier is independent of
// trust tier.
var tierIDs = []string{"S", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N"}

func buildTiers(entries []Entry) []Tier {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := categoryRank[ordered[i].Category], categoryRank[ordered[j].Category]
		if ri != rj {
			return ri < rj
		}
		return ordered[i].Domain < ordered[j].Domain
	})

	var tiers []Tier
	for start := 0; start < len(ordered); start += maxTierSize {
		end := start + maxTierSize
		if end > len(ordered) {
			end = len(ordered)
		}
		chunk := ordered[start:end]

		domains := make([]string, 0, len(chunk))
		for _, e := range chunk {
			domains = append(domains, e.Domain)
		}

		id := "T" + strconv.Itoa(len(tiers))
		if len(tiers) < len(tierIDs) {
			id = tierIDs[len(tiers)]
		}
		tiers = append(tiers, Tier{
			ID:       id,
			Priority: len(tiers),
			Label:    string(chunk[0].Category) + "…" + string(chunk[len(chunk)-1].Category),
			Domains:  domains,
		})
	}
	return tiers
}

// normalizeDomain lowercases and strips scheme, www. and trailing slashes
// from a configured domain entry.
func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimRight(d, "/")
}

// hostOf extracts the normalized hostname from a URL, tolerating bare hosts.
func hostOf(rawURL string) string {
	h, _ := hostAndPath(rawURL)
	return h
}

func hostAndPath(rawURL string) (string, string) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "", ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	return host, strings.TrimRight(parsed.EscapedPath(), "/")
}
