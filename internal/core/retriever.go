// ABOUTME: Retriever embeds a question and resolves nearest chunks to retrieval results
// ABOUTME: Result order is strictly ascending by L2 distance, no re-ranking
package core

import (
	"context"
	"fmt"

	"corpusqa/internal/index"
	"corpusqa/internal/models"
)

// Embedder is the capability the retriever and builder need from the
// embedding service. Implementations must preserve input order and
// either fully succeed or fully fail per batch.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever answers "which chunks are nearest to this question" over an
// immutable index snapshot.
type Retriever struct {
	embedder Embedder
	flat     *index.Flat
	meta     *index.Meta
}

// NewRetriever wires an embedder to a loaded index snapshot.
func NewRetriever(embedder Embedder, flat *index.Flat, meta *index.Meta) *Retriever {
	return &Retriever{embedder: embedder, flat: flat, meta: meta}
}

// Retrieve embeds the query, searches the index, and maps each hit
// position through the parallel chunk/metadata arrays. Results keep the
// search's distance-ascending order.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievalResult, error) {
	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding query: got %d vectors for one input", len(vectors))
	}

	hits, err := r.flat.Search(vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]models.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		res, err := r.meta.Resolve(hit.Position)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
