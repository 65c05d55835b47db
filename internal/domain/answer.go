package domain

// SourceRef is the attribution for one retrieved chunk. The retrieval result
// keeps one entry per chunk in ranking order and does not deduplicate.
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is the result of the retrieval-and-answer flow.
type Answer struct {
	CompanyID string      `json:"company_id"`
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources"`
}

// SearchResult is the canonical structured form of one web-search hit.
// The search API's loosely-typed payload is resolved into this type once at
// ingestion and the ambiguity does not propagate further.
type SearchResult struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}
