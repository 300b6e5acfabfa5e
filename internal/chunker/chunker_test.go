// ABOUTME: Tests for the fixed-size overlapping splitter
// ABOUTME: Covers coverage/overlap invariants, edge cases, and parameter validation
package chunker

import (
	"errors"
	"strings"
	"testing"

	"corpusqa/internal/models"
)

func TestSplit_CoverageAndOverlap(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	chunkSize := 10
	overlap := 3

	chunks, err := Split(text, chunkSize, overlap)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	step := chunkSize - overlap
	for i, chunk := range chunks {
		start := i * step
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		if chunk != text[start:end] {
			t.Errorf("chunk %d = %q, want %q", i, chunk, text[start:end])
		}
		if i > 0 && len(chunks[i-1]) == chunkSize {
			prevTail := chunks[i-1][chunkSize-overlap:]
			head := chunk
			if len(head) > overlap {
				head = head[:overlap]
			}
			if prevTail != head {
				t.Errorf("chunks %d/%d overlap = %q vs %q", i-1, i, prevTail, head)
			}
		}
	}

	// Full coverage: last chunk must end at len(text).
	lastStart := (len(chunks) - 1) * step
	if lastStart+len(chunks[len(chunks)-1]) != len(text) {
		t.Errorf("chunks do not cover text end: last ends at %d, want %d",
			lastStart+len(chunks[len(chunks)-1]), len(text))
	}
}

func TestSplit_ShortText(t *testing.T) {
	chunks, err := Split("short", 100, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("expected single whole-text chunk, got %v", chunks)
	}
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %v", chunks)
	}
}

func TestSplit_InvalidParams(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"overlap equals chunk size", 10, 10},
		{"overlap exceeds chunk size", 10, 15},
		{"negative overlap", 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.chunkSize, tt.overlap)
			if !errors.Is(err, ErrInvalidChunking) {
				t.Errorf("expected ErrInvalidChunking, got %v", err)
			}
		})
	}
}

func TestSplit_SpecExample(t *testing.T) {
	// Two 30-byte windows with 5 bytes of overlap leave a short tail, so
	// a 51-byte text yields 3 chunks.
	text := "Event A happened in 1945. Event B happened in 1950."
	chunks, err := Split(text, 30, 5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "Event A happened in 1945") {
		t.Errorf("first chunk should contain Event A sentence, got %q", chunks[0])
	}
}

func TestSplitDocument_AttachesMetadata(t *testing.T) {
	doc := models.Document{
		Text: strings.Repeat("x", 25),
		Meta: models.Metadata{Source: "site.vn", URL: "http://site.vn/a"},
	}

	chunks, err := SplitDocument(doc, 10, 2)
	if err != nil {
		t.Fatalf("SplitDocument failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Meta.URL != doc.Meta.URL || ch.Meta.Source != doc.Meta.Source {
			t.Errorf("chunk %d metadata = %+v, want %+v", i, ch.Meta, doc.Meta)
		}
	}
}
