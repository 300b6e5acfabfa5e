// ABOUTME: One-shot offline index build: documents to chunks to embeddings to artifacts
// ABOUTME: Chunk order is preserved end-to-end so positions stay aligned with metadata
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"corpusqa/internal/chunker"
	"corpusqa/internal/config"
	"corpusqa/internal/index"
	"corpusqa/internal/models"
	"corpusqa/internal/store"
)

// Builder turns the document store into the two vector index artifacts.
type Builder struct {
	cfg      *config.Config
	store    *store.DocStore
	embedder Embedder
}

// NewBuilder wires the offline build pipeline.
func NewBuilder(cfg *config.Config, docs *store.DocStore, embedder Embedder) *Builder {
	return &Builder{cfg: cfg, store: docs, embedder: embedder}
}

// BuildStats summarizes a completed build.
type BuildStats struct {
	Documents int
	Chunks    int
	Dimension int
}

// Build loads every document, chunks, embeds in bounded batches, and
// writes the index plus its chunk/metadata sidecar. Any embedding
// failure aborts the whole build; a partial index is never written.
func (b *Builder) Build(ctx context.Context) (BuildStats, error) {
	docs, err := b.store.LoadAll()
	if err != nil {
		return BuildStats{}, fmt.Errorf("loading documents: %w", err)
	}
	if len(docs) == 0 {
		return BuildStats{}, fmt.Errorf("no documents under %s", b.store.Root())
	}

	meta := &index.Meta{}
	var allChunks []models.Chunk
	for _, doc := range docs {
		chunks, err := chunker.SplitDocument(doc, b.cfg.ChunkSize, b.cfg.ChunkOverlap)
		if err != nil {
			return BuildStats{}, fmt.Errorf("chunking %s: %w", doc.Meta.URL, err)
		}
		for _, ch := range chunks {
			allChunks = append(allChunks, ch)
			meta.Append(ch)
		}
	}
	slog.Info("chunked corpus", "documents", len(docs), "chunks", len(allChunks))

	flat := index.NewFlat()
	batchSize := b.cfg.EmbedBatchSize
	for start := 0; start < len(allChunks); start += batchSize {
		end := start + batchSize
		if end > len(allChunks) {
			end = len(allChunks)
		}
		texts := make([]string, 0, end-start)
		for _, ch := range allChunks[start:end] {
			texts = append(texts, ch.Text)
		}

		vectors, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return BuildStats{}, fmt.Errorf("embedding batch at %d: %w", start, err)
		}
		if err := flat.Add(vectors); err != nil {
			return BuildStats{}, fmt.Errorf("indexing batch at %d: %w", start, err)
		}
		slog.Debug("embedded batch", "start", start, "size", end-start)
	}

	if err := os.MkdirAll(b.cfg.IndexDir, 0o755); err != nil {
		return BuildStats{}, fmt.Errorf("creating index dir: %w", err)
	}
	if err := flat.Save(b.cfg.IndexPath()); err != nil {
		return BuildStats{}, err
	}
	if err := meta.Save(b.cfg.MetaPath()); err != nil {
		return BuildStats{}, err
	}

	return BuildStats{
		Documents: len(docs),
		Chunks:    len(allChunks),
		Dimension: flat.Dimension(),
	}, nil
}
