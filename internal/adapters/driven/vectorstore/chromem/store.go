// Package chromem provides a durable vector store backed by chromem-go,
// an embedded vector database that persists collections on disk.
package chromem

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// BackendName identifies this backend in config and stats.
const BackendName = "chromem"

const collectionName = "chunks"

// addConcurrency bounds chromem's internal parallelism when adding
// documents.
const addConcurrency = 4

// Store persists chunk vectors in a chromem-go collection on disk.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	dimensions int
}

// New opens (or creates) a persistent store rooted at path. Vectors are
// expected to carry the given dimensionality.
func New(path string, dimensions int) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("open chunk collection: %w", err)
	}

	return &Store{
		db:         db,
		collection: collection,
		dimensions: dimensions,
	}, nil
}

// Add stores chunks with their vectors. Chunk IDs are deterministic, so
// re-adding identical content overwrites the same entries.
func (s *Store) Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromemgo.Document, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != s.dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, store expects %d",
				domain.ErrDimensionMismatch, i, len(vectors[i]), s.dimensions)
		}
		docs[i] = chromemgo.Document{
			ID:        chunk.ID,
			Metadata:  encodeMetadata(chunk),
			Embedding: vectors[i],
			Content:   chunk.Text,
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, addConcurrency); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Search returns up to topK chunks ranked by cosine similarity to the
// query vector, highest first.
func (s *Store) Search(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}

	// chromem rejects k larger than the collection
	if count := s.collection.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for i, result := range results {
		// chromem normalises vectors before scoring, so a zero vector
		// (a degraded embedding) yields NaN. Score it 0, matching the
		// flat backend's convention for zero vectors.
		similarity := float64(result.Similarity)
		if math.IsNaN(similarity) {
			similarity = 0
		}
		hits[i] = driven.VectorHit{
			Chunk:      decodeChunk(result.ID, result.Content, result.Metadata),
			Similarity: similarity,
		}
	}

	// NaN compares false against everything, so chromem's internal sort
	// leaves zero-vector hits in arbitrary positions. Re-sort now that
	// their scores are well defined.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})
	return hits, nil
}

// Delete removes the given chunk IDs. Missing IDs are not an error.
func (s *Store) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, chunkIDs...); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

// Stats reports the backend name, chunk count and dimensionality.
func (s *Store) Stats(_ context.Context) (driven.VectorStoreStats, error) {
	return driven.VectorStoreStats{
		Backend:     BackendName,
		TotalChunks: s.collection.Count(),
		Dimensions:  s.dimensions,
	}, nil
}

// Close releases resources. chromem persists on every write, so there
// is nothing to flush.
func (s *Store) Close() error {
	return nil
}

// encodeMetadata flattens chunk metadata into chromem's string map,
// adding the fields needed to reconstruct the chunk on read.
func encodeMetadata(chunk domain.Chunk) map[string]string {
	md := make(map[string]string, len(chunk.Metadata)+3)
	for k, v := range chunk.Metadata {
		md[k] = fmt.Sprint(v)
	}
	md["document_hash"] = chunk.DocumentHash
	md["chunk_index"] = strconv.Itoa(chunk.Ordinal)
	md["total_chunks"] = strconv.Itoa(chunk.TotalChunks)
	return md
}

// decodeChunk rebuilds a chunk from a stored document.
func decodeChunk(id, content string, md map[string]string) domain.Chunk {
	chunk := domain.Chunk{
		ID:       id,
		Text:     content,
		Metadata: make(map[string]any, len(md)),
	}
	for k, v := range md {
		chunk.Metadata[k] = v
	}
	chunk.DocumentHash = md["document_hash"]
	if n, err := strconv.Atoi(md["chunk_index"]); err == nil {
		chunk.Ordinal = n
	}
	if n, err := strconv.Atoi(md["total_chunks"]); err == nil {
		chunk.TotalChunks = n
	}
	return chunk
}
