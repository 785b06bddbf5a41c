package model

import "time"

// AlertType identifies the kind of policy violation a compliance scan found.
type AlertType string

const (
	AlertCompetitor       AlertType = "competitor"
	AlertNonApproved      AlertType = "non_approved"
	AlertBrokenLink       AlertType = "broken_link"
	AlertMissingGovSource AlertType = "missing_gov_source"
)

// Severity ranks how urgently a compliance alert needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// ComplianceAlert is a persisted violation detected by the auditor. At most
// one unresolved alert exists per (article, url, type) tuple; each scan pass
// deletes unresolved alerts for the article before inserting fresh ones.
type ComplianceAlert struct {
	ID          string     `json:"id"`
	ArticleID   string     `json:"article_id"`
	AlertType   AlertType  `json:"alert_type"`
	Severity    Severity   `json:"severity"`
	CitationURL string     `json:"citation_url,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	DetectedAt  time.Time  `json:"detected_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Violation is an in-memory scan finding, before persistence.
type Violation struct {
	AlertType   AlertType `json:"alert_type"`
	Severity    Severity  `json:"severity"`
	CitationURL string    `json:"citation_url,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// DomainOffenses counts violations attributed to one domain, for the
// top-offenders ranking in compliance reports.
type DomainOffenses struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// ComplianceReport aggregates scan results across a corpus of articles.
type ComplianceReport struct {
	ArticlesScanned     int              `json:"articles_scanned"`
	TotalCitations      int              `json:"total_citations"`
	ApprovedCount       int              `json:"approved_count"`
	NonApprovedCount    int              `json:"non_approved_count"`
	CompetitorCount     int              `json:"competitor_count"`
	GovSourcePercentage float64          `json:"gov_source_percentage"`
	CategoryBreakdown   map[string]int   `json:"category_breakdown"`
	TopOffendingDomains []DomainOffenses `json:"top_offending_domains"`
	ComplianceScore     int              `json:"compliance_score"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
