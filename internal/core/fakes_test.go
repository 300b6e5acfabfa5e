// ABOUTME: Deterministic fakes for embedding and generation, no network access
// ABOUTME: The fake embedder maps word overlap to vector proximity
package core

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"corpusqa/internal/llm"
)

const fakeDim = 256

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// fakeEmbedder produces unit-length word-histogram vectors, so texts
// sharing words land near each other under L2 distance. Texts with no
// words get a dedicated orthogonal direction.
type fakeEmbedder struct {
	calls [][]string
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = fakeEmbed(text)
	}
	return out, nil
}

func fakeEmbed(text string) []float32 {
	v := make([]float32, fakeDim)
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		v[fakeDim-1] = 1
		return v
	}
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%(fakeDim-1)]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// fakeGenerator honors the closed-context contract the way a
// cooperative model would: if the prompt's grounding material shares a
// substantive word with the question it answers from the material,
// otherwise it echoes the refusal sentence embedded in the prompt.
type fakeGenerator struct {
	lastMessages []llm.Message
	lastTemp     float32
}

var refusalRe = regexp.MustCompile(`"([^"]+)"`)

func (f *fakeGenerator) Complete(_ context.Context, messages []llm.Message, temperature float32) (string, error) {
	f.lastMessages = messages
	f.lastTemp = temperature

	prompt := messages[len(messages)-1].Content
	refusal := "unknown"
	if m := refusalRe.FindStringSubmatch(prompt); m != nil {
		refusal = m[1]
	}

	grounding, question := splitPrompt(prompt)
	for _, w := range wordRe.FindAllString(strings.ToLower(question), -1) {
		if len(w) >= 4 && strings.Contains(strings.ToLower(grounding), w) {
			return "Grounded: " + grounding, nil
		}
	}
	return refusal, nil
}

func splitPrompt(prompt string) (grounding, question string) {
	if start := strings.Index(prompt, "<CONTEXT>"); start >= 0 {
		if end := strings.Index(prompt, "</CONTEXT>"); end > start {
			grounding = prompt[start+len("<CONTEXT>") : end]
		}
	}
	if i := strings.LastIndex(prompt, "Câu hỏi:"); i >= 0 {
		question = prompt[i+len("Câu hỏi:"):]
	}
	return grounding, question
}
