// ABOUTME: Tests for the grounded answerer and citation post-processing
// ABOUTME: Covers the refusal contract, prompt construction, and URL dedup
package core

import (
	"context"
	"strings"
	"testing"

	"corpusqa/internal/config"
	"corpusqa/internal/models"
)

func ctxResult(text, source, url string) models.RetrievalResult {
	return models.RetrievalResult{
		ChunkText: text,
		Meta:      models.Metadata{Source: source, URL: url},
	}
}

func TestAnswerer_GroundedAnswer(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAnswerer(gen, ModeStrict, 0, config.DefaultRefusal)

	contexts := []models.RetrievalResult{
		ctxResult("Event A happened in 1945.", "site.vn", "http://site.vn/a"),
	}
	ans, err := a.Answer(context.Background(), "When did Event A happen?", contexts)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	if !strings.Contains(ans.Text, "1945") {
		t.Errorf("answer %q should be grounded in the context", ans.Text)
	}
	if len(ans.Citations) != 1 || ans.Citations[0].URL != "http://site.vn/a" {
		t.Errorf("citations = %+v, want the single source", ans.Citations)
	}
}

func TestAnswerer_RefusalContract(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAnswerer(gen, ModeStrict, 0, config.DefaultRefusal)

	contexts := []models.RetrievalResult{
		ctxResult("The sky is blue.", "site.vn", "http://site.vn/sky"),
	}
	ans, err := a.Answer(context.Background(), "What is the capital of France?", contexts)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	if ans.Text != config.DefaultRefusal {
		t.Errorf("answer = %q, want the exact refusal literal %q", ans.Text, config.DefaultRefusal)
	}
}

func TestAnswerer_EmptyContextsStillCalls(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAnswerer(gen, ModeStrict, 0, config.DefaultRefusal)

	ans, err := a.Answer(context.Background(), "Anything at all?", nil)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if gen.lastMessages == nil {
		t.Fatal("the model must still be called with empty grounding material")
	}
	if ans.Text != config.DefaultRefusal {
		t.Errorf("answer = %q, want the refusal for empty grounding", ans.Text)
	}
	if len(ans.Citations) != 0 {
		t.Errorf("citations = %+v, want none", ans.Citations)
	}
}

func TestAnswerer_StrictPromptContents(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAnswerer(gen, ModeStrict, 0.9, config.DefaultRefusal)

	_, err := a.Answer(context.Background(), "câu hỏi thử", []models.RetrievalResult{
		ctxResult("nội dung một", "a.vn", "http://a.vn/1"),
		ctxResult("nội dung hai", "b.vn", "http://b.vn/2"),
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	prompt := gen.lastMessages[0].Content
	for _, want := range []string{
		"KHÉP KÍN",
		"TUYỆT ĐỐI KHÔNG",
		config.DefaultRefusal,
		"<CONTEXT>",
		"nội dung một\nnội dung hai",
		"Câu hỏi: câu hỏi thử",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("strict prompt missing %q", want)
		}
	}
	// Strict mode pins temperature to zero regardless of configuration.
	if gen.lastTemp != 0 {
		t.Errorf("strict temperature = %f, want 0", gen.lastTemp)
	}
}

func TestAnswerer_PublicMode(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAnswerer(gen, ModePublic, 0.7, config.DefaultRefusal)

	_, err := a.Answer(context.Background(), "câu hỏi", []models.RetrievalResult{
		ctxResult("tài liệu", "a.vn", "http://a.vn/1"),
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	if len(gen.lastMessages) != 2 || gen.lastMessages[0].Content != "You are a closed-domain question answering system." {
		t.Errorf("public mode must set the closed-domain system message, got %+v", gen.lastMessages)
	}
	if !strings.Contains(gen.lastMessages[1].Content, config.DefaultRefusal) {
		t.Error("public prompt must keep the closed-context refusal instruction")
	}
	if gen.lastTemp != 0.7 {
		t.Errorf("public temperature = %f, want the configured 0.7", gen.lastTemp)
	}
}

func TestCitations_DedupFirstSeenOrder(t *testing.T) {
	contexts := []models.RetrievalResult{
		ctxResult("one", "a.vn", "http://a.vn/1"),
		ctxResult("two", "b.vn", "http://b.vn/2"),
		ctxResult("three", "a.vn", "http://a.vn/1"),
		ctxResult("four", "b.vn", "http://b.vn/2"),
		ctxResult("five", "c.vn", "http://c.vn/3"),
	}

	got := Citations(contexts)
	want := []models.Citation{
		{Source: "a.vn", URL: "http://a.vn/1"},
		{Source: "b.vn", URL: "http://b.vn/2"},
		{Source: "c.vn", URL: "http://c.vn/3"},
	}

	if len(got) != len(want) {
		t.Fatalf("citations = %+v, want %d unique URLs", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("citation %d = %+v, want %+v (first-seen order)", i, got[i], want[i])
		}
	}
}
