// ABOUTME: Exact (brute-force) L2 nearest-neighbor index over float32 vectors
// ABOUTME: Built offline, persisted with gob, read-only at query time
package index

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

var (
	// ErrIndexNotBuilt is returned by Search before any vectors are stored.
	ErrIndexNotBuilt = errors.New("index not built")
	// ErrDimensionMismatch is returned when a vector's length differs
	// from the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrIndexCorrupt signals a position/metadata alignment violation,
	// always a build-time bug, never recoverable in-process.
	ErrIndexCorrupt = errors.New("index corrupt")
)

// Hit is one search result: a position into the parallel chunk arrays
// and its squared L2 distance from the query.
type Hit struct {
	Position int
	Distance float32
}

// Flat stores vectors of a uniform dimension and scans all of them per
// query. Exact by construction; corpus sizes here are in the thousands
// of chunks, so correctness wins over speed. Search performs no writes
// and is safe for concurrent readers once the index is built.
type Flat struct {
	dim     int
	vectors [][]float32
}

// NewFlat returns an empty index. The dimension is fixed by the first
// Add call.
func NewFlat() *Flat { return &Flat{} }

// Dimension returns the vector dimension, or 0 before any Add.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Add appends vectors in order. Positions are dense and assigned by
// insertion order, which must match the parallel chunk/metadata arrays.
func (f *Flat) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if f.dim == 0 {
			if len(v) == 0 {
				return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
			}
			f.dim = len(v)
		}
		if len(v) != f.dim {
			return fmt.Errorf("%w: got %d, index dimension %d", ErrDimensionMismatch, len(v), f.dim)
		}
		f.vectors = append(f.vectors, v)
	}
	return nil
}

// Search returns the min(k, Len()) nearest stored vectors, ascending by
// squared L2 distance.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(f.vectors) == 0 {
		return nil, ErrIndexNotBuilt
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Position: i, Distance: l2Squared(query, v)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Position < hits[j].Position
		}
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// persistedIndex is the gob wire form. Vector order is position order.
type persistedIndex struct {
	Dimension int
	Vectors   [][]float32
}

// Save writes the index to path.
func (f *Flat) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(persistedIndex{Dimension: f.dim, Vectors: f.vectors}); err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return nil
}

// LoadFlat reads an index written by Save, preserving vector order and
// dimension.
func LoadFlat(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer file.Close()

	var p persistedIndex
	if err := gob.NewDecoder(file).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	for i, v := range p.Vectors {
		if len(v) != p.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, index dimension %d",
				ErrIndexCorrupt, i, len(v), p.Dimension)
		}
	}
	return &Flat{dim: p.Dimension, vectors: p.Vectors}, nil
}

func l2Squared(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Min(sum, math.MaxFloat32))
}
