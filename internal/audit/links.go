package audit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// citedURL is one external link found in an article, with where it came from.
type citedURL struct {
	URL        string
	Source     string // "structured" or "body"
	Verified   model.VerificationStatus
	SourceName string
}

// collectURLs merges an article's structured citations with every external
// <a href> in the rendered body, deduplicated by exact URL. Structured
// entries win on conflict so their verification status survives the merge.
func collectURLs(article model.Article) []citedURL {
	seen := make(map[string]struct{})
	var out []citedURL

	for _, c := range article.ExternalCitations {
		u := strings.TrimSpace(c.URL)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, citedURL{
			URL:        u,
			Source:     "structured",
			Verified:   c.VerificationStatus,
			SourceName: c.SourceName,
		})
	}

	for _, u := range extractBodyLinks(article.DetailedContent) {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, citedURL{URL: u, Source: "body"})
	}

	return out
}

// extractBodyLinks pulls external http(s) hrefs out of article HTML.
// Anchors, mailto/tel links, and relative paths are internal navigation, not
// citations. A body that fails to parse contributes nothing rather than
// failing the scan.
func extractBodyLinks(body string) []string {
	if body == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		links = append(links, href)
	})
	return links
}
