package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	return New(registry.Default())
}

func TestScoreDeterministic(t *testing.T) {
	s := newScorer(t)
	in := Input{
		URL:          "https://boe.es/buscar/act.php?id=BOE-A-2022-1234",
		SourceName:   "Boletín Oficial del Estado",
		Description:  "Official government bulletin publishing the property transfer tax rates for Andalucía.",
		IsAccessible: true,
	}

	first := s.Score(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(in))
	}
}

func TestDomainClassLadder(t *testing.T) {
	s := newScorer(t)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"gob.es", "https://sede.agenciatributaria.gob.es/tramite", weightGovTLD},
		{"us gov", "https://irs.gov/forms", weightGovTLD},
		{"europa.eu", "https://europa.eu/youreurope/citizens", weightGovTLD},
		{"intl org", "https://oecd.org/spain/report", weightIntlOrg},
		{"who.int", "https://who.int/data", weightIntlOrg},
		{"registry gov category", "https://dgt.es/tramites", weightOtherGov},
		{"major news", "https://elpais.com/economia/articulo", weightMajorNews},
		{"legal hint", "https://notariado.org/guia", weightLegalProf},
		{"plain .net", "https://someforum.net/thread", weightGenericDotNet},
		{"floor", "https://random-blog.xyz/post", weightFloor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.domainClass(tt.url))
		})
	}
}

// Government sources must outrank commercial ones regardless of content
// quality: the class ladder spans 12–40 while quality spans 0–30.
func TestGovernmentOutranksCommercial(t *testing.T) {
	s := newScorer(t)

	gov := s.Score(Input{
		URL:        "https://catastro.hacienda.gob.es",
		SourceName: "Catastro",
	})
	commercial := s.Score(Input{
		URL:         "https://some-property-blog.xyz/market-report",
		SourceName:  "Property Blog",
		Description: "Step-by-step guide with the best price analysis of the Marbella market, sign up today for our exclusive deal on listings and professional news.",
	})
	assert.Greater(t, gov.Total, commercial.Total)
}

func TestContentQuality(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		description string
		want        int
	}{
		{"empty", "", "", 0},
		{"official keyword", "Ministerio de Hacienda", "", 15},
		{"legal keyword", "Notary Association", "", 12}, // notary outranks association in the ladder
		{"news keyword", "Málaga Noticias", "", 8},
		{
			"long actionable",
			"Agencia Tributaria",
			"Official step-by-step guide covering the requirements and deadlines for filing the Spanish non-resident property tax, including every form needed and the full application procedure.",
			25, // official 15 + length 5 + actionable 5
		},
		{"marketing penalty floors at zero", "", "Buy now! Best price! Limited offer!", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentQuality(tt.source, tt.description))
		})
	}
}

func TestRelevanceLadder(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"property prices in Marbella rose", 10},
		{"the Andalucía housing market", 9},
		{"buying property in Spain", 8},
		{"European mortgage rates", 6},
		{"global interest rate outlook", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevance(tt.text), tt.text)
	}
}

func TestAccessibilityComponent(t *testing.T) {
	s := newScorer(t)
	in := Input{URL: "https://ine.es/stats", SourceName: "INE"}

	down := s.Score(in)
	in.IsAccessible = true
	up := s.Score(in)

	assert.Equal(t, 0, down.Accessibility)
	assert.Equal(t, 20, up.Accessibility)
	assert.Equal(t, down.Total+20, up.Total)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, model.TierHigh, TierFor(70))
	assert.Equal(t, model.TierHigh, TierFor(100))
	assert.Equal(t, model.TierMedium, TierFor(69))
	assert.Equal(t, model.TierMedium, TierFor(40))
	assert.Equal(t, model.TierLow, TierFor(39))
	assert.Equal(t, model.TierLow, TierFor(0))
}

func TestScoreCapsAt100(t *testing.T) {
	s := newScorer(t)
	sc := s.Score(Input{
		URL:          "https://juntadeandalucia.es/organismos/economia",
		SourceName:   "Junta de Andalucía — Official Ministry",
		Description:  "Official government guide: step-by-step requirements and deadlines for property purchase taxes across Andalucía, Marbella and the wider Costa del Sol, maintained by the regional ministry of economy and finance for residents.",
		IsAccessible: true,
	})
	assert.LessOrEqual(t, sc.Total, 100)
	assert.Equal(t, model.TierHigh, sc.Tier)
}
