package driving

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// QueryService is the read path of the pipeline.
type QueryService interface {
	// Query embeds the question and returns up to topK chunks ranked by
	// descending similarity. An empty knowledge base yields an empty slice,
	// never an error.
	Query(ctx context.Context, question string, topK int) ([]domain.QueryResult, error)
}
