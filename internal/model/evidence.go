package model

// EvidenceItem is a literature reference offered in support of an
// association. Items are retrieved by the source adapters, optionally
// filtered by the verifier, and retained only as an attachment on an
// association - never persisted as a graph entity of their own.
type EvidenceItem struct {
	Title      string `json:"title"`
	Authors    string `json:"authors,omitempty"`
	Year       string `json:"year,omitempty"`
	Source     string `json:"source,omitempty"`
	Identifier string `json:"identifier,omitempty"` // DOI, arXiv id, ISBN or URL
	Summary    string `json:"summary,omitempty"`    // truncated, used for verification only
	URL        string `json:"url,omitempty"`
}
