// ABOUTME: Query-time result types: retrieved context and grounded answers
// ABOUTME: RetrievalResult is an ephemeral read-only view, never persisted
package models

// RetrievalResult is one retrieved chunk with its citation metadata,
// ordered by ascending distance from the query.
type RetrievalResult struct {
	ChunkText string   `json:"chunk_text"`
	Meta      Metadata `json:"metadata"`
}

// Citation is a (source domain, url) pair exposed for display.
type Citation struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Answer is the output of the grounded answerer: the model's text plus
// deduplicated source citations in first-seen order.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"sources"`
}
