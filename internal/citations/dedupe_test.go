package citations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing slash", "https://boe.es/doc/", "https://boe.es/doc"},
		{"www stripped", "https://www.boe.es/doc", "https://boe.es/doc"},
		{"query dropped", "https://boe.es/doc?utm_source=x&ref=y", "https://boe.es/doc"},
		{"fragment dropped", "https://boe.es/doc#section-2", "https://boe.es/doc"},
		{"case folded", "HTTPS://BOE.ES/Doc", "https://boe.es/doc"},
		{"bare root", "https://boe.es/", "https://boe.es"},
		{"unparseable falls back", "not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

// The same document behind tracking parameters, www, and trailing slashes
// must collapse to one key.
func TestNormalizeURLVariantsCollide(t *testing.T) {
	variants := []string{
		"https://boe.es/buscar/act.php",
		"https://www.boe.es/buscar/act.php/",
		"https://boe.es/buscar/act.php?utm_campaign=spring",
		"HTTPS://BOE.ES/buscar/act.php#art3",
	}
	want := NormalizeURL(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, NormalizeURL(v), v)
	}
}

func TestAccumulatorAddNew(t *testing.T) {
	acc := newAccumulator()

	assert.True(t, acc.add(model.Citation{URL: "https://boe.es/a", AuthorityScore: 80}))
	assert.True(t, acc.add(model.Citation{URL: "https://ine.es/b", AuthorityScore: 60}))
	assert.Equal(t, 2, acc.len())

	list := acc.list()
	require.Len(t, list, 2)
	assert.Equal(t, "https://boe.es/a", list[0].URL)
	assert.Equal(t, "https://ine.es/b", list[1].URL)
}

func TestAccumulatorMergesDuplicates(t *testing.T) {
	acc := newAccumulator()

	acc.add(model.Citation{
		URL:            "https://boe.es/doc",
		Description:    "The official rate table.",
		AuthorityScore: 60,
	})
	added := acc.add(model.Citation{
		URL:            "https://www.boe.es/doc/",
		Description:    "Transfer tax rates by region.",
		AuthorityScore: 75,
	})

	assert.False(t, added)
	assert.Equal(t, 1, acc.len())

	c := acc.list()[0]
	// Higher-scored entry wins the identity; both descriptions survive.
	assert.Equal(t, 75, c.AuthorityScore)
	assert.Contains(t, c.Description, "Transfer tax rates by region.")
	assert.Contains(t, c.Description, "The official rate table.")
}

func TestAccumulatorMergeKeepsSentenceTarget(t *testing.T) {
	acc := newAccumulator()

	acc.add(model.Citation{
		URL:              "https://boe.es/doc",
		AuthorityScore:   60,
		TargetSentenceID: "s3",
		SuggestedAnchor:  "official decree",
	})
	acc.add(model.Citation{
		URL:            "https://boe.es/doc",
		AuthorityScore: 90,
	})

	c := acc.list()[0]
	assert.Equal(t, 90, c.AuthorityScore)
	assert.Equal(t, "s3", c.TargetSentenceID)
	assert.Equal(t, "official decree", c.SuggestedAnchor)
}

func TestAccumulatorLowerScoreDuplicateFoldsIn(t *testing.T) {
	acc := newAccumulator()

	acc.add(model.Citation{URL: "https://boe.es/doc", AuthorityScore: 90, Description: "Primary."})
	acc.add(model.Citation{
		URL:              "https://boe.es/doc",
		AuthorityScore:   40,
		Description:      "Secondary context.",
		TargetSentenceID: "s1",
	})

	c := acc.list()[0]
	assert.Equal(t, 90, c.AuthorityScore)
	assert.Contains(t, c.Description, "Primary.")
	assert.Contains(t, c.Description, "Secondary context.")
	assert.Equal(t, "s1", c.TargetSentenceID)
}

func TestAccumulatorPreservesInsertionOrder(t *testing.T) {
	acc := newAccumulator()
	urls := []string{"https://a.es/1", "https://b.es/2", "https://c.es/3"}
	for _, u := range urls {
		acc.add(model.Citation{URL: u})
	}
	// A duplicate must not move its entry to the back.
	acc.add(model.Citation{URL: "https://a.es/1", AuthorityScore: 50})

	list := acc.list()
	require.Len(t, list, 3)
	for i, u := range urls {
		assert.Equal(t, u, list[i].URL)
	}
}
