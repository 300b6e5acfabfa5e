// ABOUTME: Position-aligned chunk/metadata sidecar for the flat index
// ABOUTME: Both artifacts must load together; a length mismatch is fatal
package index

import (
	"encoding/json"
	"fmt"
	"os"

	"corpusqa/internal/models"
)

// Meta holds the parallel arrays mapping index positions back to chunk
// text and source metadata. Position i in the index resolves to
// Chunks[i] and Metadata[i], an alignment preserved across build, save
// and reload.
type Meta struct {
	Chunks   []string          `json:"chunks"`
	Metadata []models.Metadata `json:"metadata"`
}

// Append records one chunk at the next position.
func (m *Meta) Append(chunk models.Chunk) {
	m.Chunks = append(m.Chunks, chunk.Text)
	m.Metadata = append(m.Metadata, chunk.Meta)
}

// Resolve returns the retrieval view for a search position. An
// out-of-range position indicates a persistence or alignment bug.
func (m *Meta) Resolve(position int) (models.RetrievalResult, error) {
	if position < 0 || position >= len(m.Chunks) {
		return models.RetrievalResult{}, fmt.Errorf("%w: position %d outside metadata of length %d",
			ErrIndexCorrupt, position, len(m.Chunks))
	}
	return models.RetrievalResult{
		ChunkText: m.Chunks[position],
		Meta:      m.Metadata[position],
	}, nil
}

// Save writes the sidecar as JSON.
func (m *Meta) Save(path string) error {
	if len(m.Chunks) != len(m.Metadata) {
		return fmt.Errorf("%w: %d chunks vs %d metadata entries", ErrIndexCorrupt, len(m.Chunks), len(m.Metadata))
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadMeta reads a sidecar written by Save.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	if len(m.Chunks) != len(m.Metadata) {
		return nil, fmt.Errorf("%w: %d chunks vs %d metadata entries", ErrIndexCorrupt, len(m.Chunks), len(m.Metadata))
	}
	return &m, nil
}

// LoadSnapshot loads the index and its sidecar together and checks
// their alignment. Loading one without the other is a configuration
// error, so this is the only load path the pipeline uses.
func LoadSnapshot(indexPath, metaPath string) (*Flat, *Meta, error) {
	flat, err := LoadFlat(indexPath)
	if err != nil {
		return nil, nil, err
	}
	meta, err := LoadMeta(metaPath)
	if err != nil {
		return nil, nil, err
	}
	if flat.Len() != len(meta.Chunks) {
		return nil, nil, fmt.Errorf("%w: index holds %d vectors, metadata %d chunks",
			ErrIndexCorrupt, flat.Len(), len(meta.Chunks))
	}
	return flat, meta, nil
}
