// ABOUTME: Pipeline glues retriever and answerer into the ask(question) interface
// ABOUTME: The loaded index snapshot is immutable; Ask is safe for concurrent callers
package core

import (
	"context"
	"fmt"
	"log/slog"

	"corpusqa/internal/config"
	"corpusqa/internal/index"
	"corpusqa/internal/models"
)

// Pipeline is the online query path: question in, grounded answer plus
// citations out.
type Pipeline struct {
	cfg       *config.Config
	retriever *Retriever
	answerer  *Answerer
}

// NewPipeline loads the index snapshot from cfg's artifact paths and
// wires the query path. Rebuilding the corpus means constructing a new
// Pipeline and swapping it in; the snapshot is never mutated in place.
func NewPipeline(cfg *config.Config, embedder Embedder, generator Generator) (*Pipeline, error) {
	flat, meta, err := index.LoadSnapshot(cfg.IndexPath(), cfg.MetaPath())
	if err != nil {
		return nil, fmt.Errorf("loading index snapshot: %w", err)
	}

	mode := ModeStrict
	if cfg.AnswerMode == "public" {
		mode = ModePublic
	}

	return &Pipeline{
		cfg:       cfg,
		retriever: NewRetriever(embedder, flat, meta),
		answerer:  NewAnswerer(generator, mode, cfg.Temperature, cfg.Refusal),
	}, nil
}

// Ask retrieves the top-K chunks for the question and generates a
// grounded answer with deduplicated citations.
func (p *Pipeline) Ask(ctx context.Context, question string) (models.Answer, error) {
	contexts, err := p.retriever.Retrieve(ctx, question, p.cfg.TopK)
	if err != nil {
		return models.Answer{}, err
	}
	slog.Debug("retrieved contexts", "question", question, "count", len(contexts))

	return p.answerer.Answer(ctx, question, contexts)
}

// Retrieve exposes raw retrieval without generation, used by the MCP
// retrieve_context tool.
func (p *Pipeline) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievalResult, error) {
	if k <= 0 {
		k = p.cfg.TopK
	}
	return p.retriever.Retrieve(ctx, query, k)
}
