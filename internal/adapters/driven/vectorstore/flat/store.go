// Package flat provides an in-memory vector store using exhaustive
// cosine similarity scan. It holds nothing on disk and is intended for
// tests and throwaway sessions.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// BackendName identifies this backend in config and stats.
const BackendName = "flat"

type entry struct {
	chunk  domain.Chunk
	vector []float32
	norm   float64
}

// Store keeps chunk vectors in memory, guarded by a read-write mutex.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	dimensions int
}

// New creates an empty store for vectors of the given dimensionality.
func New(dimensions int) *Store {
	return &Store{
		entries:    make(map[string]entry),
		dimensions: dimensions,
	}
}

// Add stores chunks with their vectors, overwriting entries with the
// same chunk ID.
func (s *Store) Add(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	for i, vec := range vectors {
		if len(vec) != s.dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, store expects %d",
				domain.ErrDimensionMismatch, i, len(vec), s.dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, chunk := range chunks {
		s.entries[chunk.ID] = entry{
			chunk:  chunk,
			vector: vectors[i],
			norm:   vectorNorm(vectors[i]),
		}
	}
	return nil
}

// Search scans all entries and returns the topK most similar by cosine
// similarity, highest first.
func (s *Store) Search(_ context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}

	queryNorm := vectorNorm(query)

	s.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(s.entries))
	for _, e := range s.entries {
		hits = append(hits, driven.VectorHit{
			Chunk:      e.chunk,
			Similarity: cosine(query, queryNorm, e.vector, e.norm),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		// Tie-break on ID for deterministic ordering
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Delete removes the given chunk IDs. Missing IDs are ignored.
func (s *Store) Delete(_ context.Context, chunkIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range chunkIDs {
		delete(s.entries, id)
	}
	return nil
}

// Stats reports the backend name, chunk count and dimensionality.
func (s *Store) Stats(_ context.Context) (driven.VectorStoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return driven.VectorStoreStats{
		Backend:     BackendName,
		TotalChunks: len(s.entries),
		Dimensions:  s.dimensions,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// cosine computes cosine similarity given precomputed norms. Zero
// vectors have similarity 0 with everything.
func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
