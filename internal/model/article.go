package model

import (
	"net/url"
	"strings"
	"time"
)

// FunnelStage classifies an article's position in the marketing funnel.
// The stage drives how many citations discovery aims for.
type FunnelStage string

const (
	FunnelTOFU FunnelStage = "TOFU"
	FunnelMOFU FunnelStage = "MOFU"
	FunnelBOFU FunnelStage = "BOFU"
)

// TargetCitations returns the citation count discovery aims for at this
// funnel stage. Unknown or empty stages get the generic default.
func (s FunnelStage) TargetCitations() int {
	switch FunnelStage(strings.ToUpper(string(s))) {
	case FunnelTOFU:
		return 3
	case FunnelMOFU:
		return 5
	case FunnelBOFU:
		return 6
	default:
		return 8
	}
}

// Article is the slice of a CMS article the citation engine works with.
type Article struct {
	ID                string      `json:"id"`
	Headline          string      `json:"headline"`
	DetailedContent   string      `json:"detailed_content"`
	Language          string      `json:"language"`
	FunnelStage       FunnelStage `json:"funnel_stage"`
	ExternalCitations []Citation  `json:"external_citations"`
}

// CitationBackup is an audit record appended before any destructive edit of
// an article's citation list.
type CitationBackup struct {
	ID        string     `json:"id"`
	ArticleID string     `json:"article_id"`
	Citations []Citation `json:"citations"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

// isPDFURL checks the URL path for a .pdf extension, ignoring query noise.
func isPDFURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}
