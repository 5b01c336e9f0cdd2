package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Throttled implements the interface.
var _ driven.EmbeddingService = (*Throttled)(nil)

// Throttled wraps an embedding service with a request rate limit so
// batch ingestion does not overwhelm a local model server or burn
// through hosted API quotas.
type Throttled struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// NewThrottled wraps inner, allowing at most rps requests per second
// with the given burst.
func NewThrottled(inner driven.EmbeddingService, rps float64, burst int) *Throttled {
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Embed waits for a rate limiter token, then delegates.
func (t *Throttled) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.inner.Embed(ctx, text)
}

// EmbedBatch waits for one token per batch request, then delegates.
func (t *Throttled) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size.
func (t *Throttled) Dimensions() int {
	return t.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (t *Throttled) ModelName() string {
	return t.inner.ModelName()
}

// Ping delegates to the wrapped service.
func (t *Throttled) Ping(ctx context.Context) error {
	return t.inner.Ping(ctx)
}

// Close delegates to the wrapped service.
func (t *Throttled) Close() error {
	return t.inner.Close()
}
