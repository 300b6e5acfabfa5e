// ABOUTME: Grounded answerer enforcing the closed-context contract
// ABOUTME: The model answers only from retrieved material or returns the fixed refusal
package core

import (
	"context"
	"fmt"
	"strings"

	"corpusqa/internal/llm"
	"corpusqa/internal/models"
)

// Generator is the capability the answerer needs from the completion
// service.
type Generator interface {
	Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error)
}

// Mode selects the prompt variant.
type Mode string

const (
	// ModeStrict is the domain-restricted variant: the full immutable
	// closed-context directive at temperature zero.
	ModeStrict Mode = "strict"
	// ModePublic keeps the closed-context instruction but with a terse
	// prompt and a caller-chosen temperature.
	ModePublic Mode = "public"
)

// Answerer builds closed-context prompts and post-processes citations.
type Answerer struct {
	generator   Generator
	mode        Mode
	temperature float32
	refusal     string
}

// NewAnswerer creates an answerer. refusal is the literal sentence the
// model is instructed to emit when the material does not support an
// answer; returning it is a designed success case, not a failure.
func NewAnswerer(generator Generator, mode Mode, temperature float32, refusal string) *Answerer {
	return &Answerer{generator: generator, mode: mode, temperature: temperature, refusal: refusal}
}

// Answer asks the model the question over the given contexts. Empty
// contexts still issue the call: the refusal instruction produces the
// "not found" response without special-casing.
func (a *Answerer) Answer(ctx context.Context, question string, contexts []models.RetrievalResult) (models.Answer, error) {
	grounding := joinContexts(contexts)

	var messages []llm.Message
	var temperature float32
	switch a.mode {
	case ModePublic:
		messages = []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a closed-domain question answering system."},
			{Role: llm.RoleUser, Content: a.publicPrompt(grounding, question)},
		}
		temperature = a.temperature
	default:
		messages = []llm.Message{
			{Role: llm.RoleUser, Content: a.strictPrompt(grounding, question)},
		}
		temperature = 0
	}

	text, err := a.generator.Complete(ctx, messages, temperature)
	if err != nil {
		return models.Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	return models.Answer{
		Text:      strings.TrimSpace(text),
		Citations: Citations(contexts),
	}, nil
}

// strictPrompt is the behavioral contract of the system, not an
// implementation detail; the rule block and the refusal literal must be
// reproduced exactly.
func (a *Answerer) strictPrompt(grounding, question string) string {
	return fmt.Sprintf(`Bạn là một AI tra cứu thông tin KHÉP KÍN.

QUY TẮC BẮT BUỘC:
- CHỈ được sử dụng thông tin trong <CONTEXT>
- TUYỆT ĐỐI KHÔNG sử dụng kiến thức bên ngoài
- Nếu thông tin không có trong CONTEXT, hãy trả lời đúng nguyên văn:
  "%s"

<CONTEXT>
%s
</CONTEXT>

Câu hỏi: %s`, a.refusal, grounding, question)
}

func (a *Answerer) publicPrompt(grounding, question string) string {
	return fmt.Sprintf(`Chỉ trả lời dựa trên thông tin sau. Nếu thông tin không có, hãy trả lời đúng nguyên văn: "%s"

%s

Câu hỏi: %s`, a.refusal, grounding, question)
}

func joinContexts(contexts []models.RetrievalResult) string {
	parts := make([]string, len(contexts))
	for i, c := range contexts {
		parts[i] = c.ChunkText
	}
	return strings.Join(parts, "\n")
}

// Citations deduplicates context sources by URL, preserving first-seen
// order. Pure post-processing, independent of model output.
func Citations(contexts []models.RetrievalResult) []models.Citation {
	seen := make(map[string]struct{}, len(contexts))
	var out []models.Citation
	for _, c := range contexts {
		if _, ok := seen[c.Meta.URL]; ok {
			continue
		}
		seen[c.Meta.URL] = struct{}{}
		out = append(out, models.Citation{Source: c.Meta.Source, URL: c.Meta.URL})
	}
	return out
}
