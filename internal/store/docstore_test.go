// ABOUTME: Tests for the flat-file document store
// ABOUTME: Covers round-trips, URL-keyed overwrite, and the malformed-record fallback
package store

import (
	"os"
	"path/filepath"
	"testing"

	"corpusqa/internal/models"
)

func testDoc() models.Document {
	return models.Document{
		Text: "Event A happened in 1945. Event B happened in 1950.",
		Meta: models.Metadata{
			Source:    "site.vn",
			URL:       "http://site.vn/a",
			CrawlTime: "2026-01-15 09:30:00",
		},
	}
}

func TestDocStore_SaveAndLoad(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	doc := testDoc()
	path, err := s.Save(doc)
	if err != nil {
		t.Fatalf("saving document: %v", err)
	}

	loaded, err := s.Load(path)
	if err != nil {
		t.Fatalf("loading document: %v", err)
	}

	if loaded.Text != doc.Text {
		t.Errorf("text = %q, want %q", loaded.Text, doc.Text)
	}
	if loaded.Meta != doc.Meta {
		t.Errorf("metadata = %+v, want %+v", loaded.Meta, doc.Meta)
	}
}

func TestDocStore_SameURLOverwrites(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	doc := testDoc()
	if _, err := s.Save(doc); err != nil {
		t.Fatalf("first save: %v", err)
	}

	doc.Text = "updated content"
	if _, err := s.Save(doc); err != nil {
		t.Fatalf("second save: %v", err)
	}

	docs, err := s.LoadAll()
	if err != nil {
		t.Fatalf("loading all: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document after re-save, got %d", len(docs))
	}
	if docs[0].Text != "updated content" {
		t.Errorf("text = %q, want the overwritten content", docs[0].Text)
	}
}

func TestDocStore_MalformedRecordFallback(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	raw := "just some text without any delimiters"
	path := filepath.Join(dir, "broken.txt")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("writing malformed record: %v", err)
	}

	doc, err := s.Load(path)
	if err != nil {
		t.Fatalf("malformed record must not error: %v", err)
	}
	if doc.Meta.Source != "unknown" || doc.Meta.URL != "unknown" {
		t.Errorf("metadata = %+v, want unknown/unknown fallback", doc.Meta)
	}
	if doc.Text != raw {
		t.Errorf("text = %q, want full file content", doc.Text)
	}
}

func TestDocStore_LoadAllSkipsNonRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if _, err := s.Save(testDoc()); err != nil {
		t.Fatalf("saving document: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing stray file: %v", err)
	}

	docs, err := s.LoadAll()
	if err != nil {
		t.Fatalf("loading all: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("http://site.vn/a")
	b := Key("http://site.vn/a")
	c := Key("http://site.vn/b")

	if a != b {
		t.Errorf("same URL produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different URLs produced the same key: %s", a)
	}
}
