// ABOUTME: Flat-file document store with delimiter-framed metadata records
// ABOUTME: Keys are md5 hashes of the URL so re-crawling overwrites instead of duplicating
package store

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"corpusqa/internal/models"
)

const (
	metadataDelimiter = "----- METADATA -----"
	contentDelimiter  = "----- CONTENT -----"
)

// DocStore persists crawled documents as .txt records under a root
// directory. Documents are read-only once written; the indexer reads
// them back with LoadAll.
type DocStore struct {
	root string
}

// New creates a DocStore rooted at dir, creating it if needed.
func New(dir string) (*DocStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &DocStore{root: dir}, nil
}

// Root returns the storage root directory.
func (s *DocStore) Root() string { return s.root }

// Key returns the content-addressed file name for a URL.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + ".txt"
}

// Save writes a document record. Saving the same URL twice overwrites
// the previous record.
func (s *DocStore) Save(doc models.Document) (string, error) {
	metaJSON, err := json.MarshalIndent(doc.Meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}

	var b strings.Builder
	b.WriteString(metadataDelimiter + "\n")
	b.Write(metaJSON)
	b.WriteString("\n\n" + contentDelimiter + "\n\n")
	b.WriteString(doc.Text)

	path := filepath.Join(s.root, Key(doc.Meta.URL))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return path, nil
}

// Load reads one document record. A record missing the content
// delimiter is not an error: the whole file becomes the content body
// and the metadata degrades to unknown/unknown.
func (s *DocStore) Load(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("reading document: %w", err)
	}
	return parseRecord(string(data)), nil
}

// LoadAll reads every .txt record under the root in stable (sorted
// path) order.
func (s *DocStore) LoadAll() ([]models.Document, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing storage root: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		paths = append(paths, filepath.Join(s.root, e.Name()))
	}
	sort.Strings(paths)

	docs := make([]models.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := s.Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseRecord(raw string) models.Document {
	before, after, found := strings.Cut(raw, contentDelimiter)
	if !found {
		return models.Document{
			Text: raw,
			Meta: models.Metadata{Source: "unknown", URL: "unknown"},
		}
	}

	metaJSON := strings.TrimSpace(strings.Replace(before, metadataDelimiter, "", 1))
	var meta models.Metadata
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		meta = models.Metadata{Source: "unknown", URL: "unknown"}
	}
	return models.Document{Text: strings.TrimSpace(after), Meta: meta}
}
