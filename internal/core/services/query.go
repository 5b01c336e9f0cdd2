package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure QueryCoordinator implements the interface.
var _ driving.QueryService = (*QueryCoordinator)(nil)

// DefaultTopK is the result count used when the caller passes zero.
const DefaultTopK = 5

// QueryCoordinator drives the read path: embed the question once, then
// rank stored chunks by similarity.
type QueryCoordinator struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewQueryCoordinator creates the query coordinator.
func NewQueryCoordinator(embedder driven.EmbeddingService, store driven.VectorStore) *QueryCoordinator {
	return &QueryCoordinator{
		embedder: embedder,
		store:    store,
	}
}

// Query embeds the question and returns up to topK chunks ranked by
// descending similarity. An empty knowledge base yields an empty slice.
func (q *QueryCoordinator) Query(ctx context.Context, question string, topK int) ([]domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Query")
	logger.Debug("question: %q (top %d)", question, topK)

	vector, err := q.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := q.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	logger.Debug("%d hits", len(hits))

	results := make([]domain.QueryResult, 0, len(hits))
	seen := make(map[string]bool, len(hits))
	for _, hit := range hits {
		if seen[hit.Chunk.ID] {
			continue
		}
		seen[hit.Chunk.ID] = true

		results = append(results, domain.QueryResult{
			ChunkText:    hit.Chunk.Text,
			DocumentName: documentName(hit.Chunk),
			Metadata:     hit.Chunk.Metadata,
			Similarity:   hit.Similarity,
			Rank:         len(results) + 1,
		})
	}

	return results, nil
}

// documentName resolves the display name from chunk metadata, falling
// back to the owning document hash.
func documentName(chunk domain.Chunk) string {
	if name, ok := chunk.Metadata["display_name"].(string); ok && name != "" {
		return name
	}
	return chunk.DocumentHash
}
