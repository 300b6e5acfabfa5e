// ABOUTME: Tests for the flat L2 index
// ABOUTME: Covers distance ordering, dimension guards, and save/load round-trips
package index

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFlat_SearchOrdering(t *testing.T) {
	f := NewFlat()
	err := f.Add([][]float32{
		{0, 0, 1},
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	})
	if err != nil {
		t.Fatalf("adding vectors: %v", err)
	}

	hits, err := f.Search([]float32{0.95, 0.05, 0}, 4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 4 {
		t.Fatalf("expected 4 hits, got %d", len(hits))
	}

	// Nearest is the vector at position 2 ([0.9, 0.1, 0]).
	if hits[0].Position != 2 {
		t.Errorf("nearest position = %d, want 2", hits[0].Position)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("distances not ascending: hit[%d]=%f < hit[%d]=%f",
				i, hits[i].Distance, i-1, hits[i-1].Distance)
		}
	}
}

func TestFlat_KLargerThanIndex(t *testing.T) {
	f := NewFlat()
	if err := f.Add([][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("adding vectors: %v", err)
	}

	hits, err := f.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected min(k, n)=2 hits, got %d", len(hits))
	}
}

func TestFlat_DimensionMismatch(t *testing.T) {
	f := NewFlat()
	if err := f.Add([][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("adding vectors: %v", err)
	}

	if _, err := f.Search([]float32{1, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("query dimension guard: got %v, want ErrDimensionMismatch", err)
	}
	if err := f.Add([][]float32{{1, 0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("add dimension guard: got %v, want ErrDimensionMismatch", err)
	}
}

func TestFlat_SearchBeforeBuild(t *testing.T) {
	f := NewFlat()
	if _, err := f.Search([]float32{1, 0}, 1); !errors.Is(err, ErrIndexNotBuilt) {
		t.Errorf("expected ErrIndexNotBuilt, got %v", err)
	}
}

func TestFlat_SaveLoadPreservesOrder(t *testing.T) {
	f := NewFlat()
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	if err := f.Add(vectors); err != nil {
		t.Fatalf("adding vectors: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index.gob")
	if err := f.Save(path); err != nil {
		t.Fatalf("saving index: %v", err)
	}

	loaded, err := LoadFlat(path)
	if err != nil {
		t.Fatalf("loading index: %v", err)
	}
	if loaded.Dimension() != 3 || loaded.Len() != 3 {
		t.Fatalf("loaded index dim=%d len=%d, want 3/3", loaded.Dimension(), loaded.Len())
	}

	// Position alignment must survive the round-trip: the exact match
	// for each original vector is its own position at distance 0.
	for i, v := range vectors {
		hits, err := loaded.Search(v, 1)
		if err != nil {
			t.Fatalf("search after load: %v", err)
		}
		if hits[0].Position != i {
			t.Errorf("vector %d resolved to position %d after reload", i, hits[0].Position)
		}
		if hits[0].Distance != 0 {
			t.Errorf("exact match distance = %f, want 0", hits[0].Distance)
		}
	}
}
