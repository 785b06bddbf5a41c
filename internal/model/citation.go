package model

import "time"

// AuthorityTier buckets an authority score into a coarse quality band.
type AuthorityTier string

const (
	TierHigh   AuthorityTier = "high"
	TierMedium AuthorityTier = "medium"
	TierLow    AuthorityTier = "low"
)

// VerificationStatus is the outcome of a liveness probe for a citation URL.
type VerificationStatus string

const (
	// VerificationVerified means the URL responded successfully.
	VerificationVerified VerificationStatus = "verified"
	// VerificationUnverified means probing was inconclusive (network or TLS
	// trouble on a lenient domain class) — the URL may still be valid.
	VerificationUnverified VerificationStatus = "unverified"
	// VerificationFailed means the URL is definitively unreachable.
	VerificationFailed VerificationStatus = "failed"
)

// Citation is a candidate or accepted external reference for an article.
type Citation struct {
	URL                string             `json:"url"`
	SourceName         string             `json:"source"`
	Description        string             `json:"description,omitempty"`
	Relevance          string             `json:"relevance,omitempty"`
	AuthorityScore     int                `json:"authorityScore"`
	AuthorityTier      AuthorityTier      `json:"authorityTier,omitempty"`
	Language           string             `json:"language,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus,omitempty"`

	// Claim targeting: filled when the search ran with citation opportunities
	// extracted from the article body.
	TargetSentenceID string  `json:"targetSentenceId,omitempty"`
	SuggestedAnchor  string  `json:"suggestedAnchor,omitempty"`
	ConfidenceScore  float64 `json:"confidenceScore,omitempty"`

	// BatchTier records which search wave produced the citation.
	BatchTier string `json:"batchTier,omitempty"`

	// Replacement provenance. A replaced citation is swapped for a new
	// object; these stamps live on the replacement.
	ReplacedAt            *time.Time `json:"replaced_at,omitempty"`
	ReplacementConfidence float64    `json:"replacement_confidence,omitempty"`
}

// IsPDF reports whether the citation URL points at a PDF document.
func (c Citation) IsPDF() bool {
	return isPDFURL(c.URL)
}

// SearchStatus is the tri-state outcome of a citation discovery run.
type SearchStatus string

const (
	// SearchSuccess means the target citation count was met.
	SearchSuccess SearchStatus = "success"
	// SearchPartial means some citations were found, but fewer than the target.
	SearchPartial SearchStatus = "partial"
	// SearchFailed means no citations were found across all tiers.
	SearchFailed SearchStatus = "failed"
)

// SearchResult is what the discovery pipeline hands to its caller. Partial
// results are valid, usable outcomes — the caller gets whatever was found
// plus an honest status.
type SearchResult struct {
	Citations     []Citation   `json:"citations"`
	Status        SearchStatus `json:"status"`
	Reason        string       `json:"reason,omitempty"`
	TotalFound    int          `json:"totalFound"`
	VerifiedCount int          `json:"verifiedCount"`
	TiersSearched int          `json:"tiersSearched"`
}
