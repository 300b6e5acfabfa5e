// ABOUTME: Document and chunk types shared across the crawl/index/query pipeline
// ABOUTME: Metadata travels with every chunk for citation purposes
package models

// Metadata identifies where a document came from. It is written once by
// the crawler and copied (never mutated) into every derived chunk.
type Metadata struct {
	Source    string `json:"source"`
	URL       string `json:"url"`
	CrawlTime string `json:"crawl_time,omitempty"`
}

// Document is a single crawled page or transcript. Immutable once
// persisted; keyed in the store by a content hash of its URL.
type Document struct {
	Text string
	Meta Metadata
}

// Chunk is a bounded window of a document's text, the unit of embedding
// and retrieval. Meta is a citation-only copy of the owning document's
// metadata.
type Chunk struct {
	Text string
	Meta Metadata
}
