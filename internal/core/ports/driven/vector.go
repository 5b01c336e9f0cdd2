package driven

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// VectorStore persists chunk embeddings and serves top-K similarity search.
// The contract is identical across backends; each adapter normalises its
// native distance/similarity convention so callers only ever see
// "similarity, higher is better".
type VectorStore interface {
	// Add stores chunks with their vectors. len(chunks) == len(vectors) is a
	// caller precondition. Writes are keyed by chunk ID; re-adding an
	// existing ID upserts and never creates a duplicate logical entry.
	Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns at most topK hits ordered by descending similarity.
	// An empty store yields an empty slice, never an error.
	Search(ctx context.Context, query []float32, topK int) ([]VectorHit, error)

	// Delete removes entries by chunk ID. Missing IDs are no-ops.
	Delete(ctx context.Context, chunkIDs []string) error

	// Stats reports backend identity and size.
	Stats(ctx context.Context) (VectorStoreStats, error)

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Chunk is the stored chunk with its metadata.
	Chunk domain.Chunk

	// Similarity is the normalised score; higher is better.
	Similarity float64
}

// VectorStoreStats describes a backend instance.
type VectorStoreStats struct {
	// Backend is the backend identifier ("chromem", "flat").
	Backend string

	// TotalChunks is the number of stored entries.
	TotalChunks int

	// Dimensions is the vector dimensionality of the store.
	Dimensions int
}
