package embedding

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure Degraded implements the interface.
var _ driven.EmbeddingService = (*Degraded)(nil)

// Degraded wraps an embedding service so that per-request provider
// failures yield zero vectors instead of aborting the pipeline. Zero
// vectors keep the ingest running but never rank in similarity search,
// so the count of degraded embeddings is tracked and surfaced in stats.
type Degraded struct {
	inner driven.EmbeddingService
	count atomic.Uint64
}

// NewDegraded wraps inner with zero-vector fallback.
func NewDegraded(inner driven.EmbeddingService) *Degraded {
	return &Degraded{inner: inner}
}

// Embed returns the inner embedding, or a zero vector on failure.
// Context cancellation is not degraded; it propagates.
func (d *Degraded) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := d.inner.Embed(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.count.Add(1)
		logger.Warn("embedding degraded to zero vector: %v", err)
		return make([]float32, d.inner.Dimensions()), nil
	}
	return vec, nil
}

// EmbedBatch embeds each text, substituting a zero vector for any
// failure. A provider batch failure degrades the whole batch by
// retrying texts individually through Embed.
func (d *Degraded) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := d.inner.EmbedBatch(ctx, texts)
	if err == nil {
		return vectors, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logger.Warn("batch embedding failed, retrying texts individually: %v", err)
	vectors = make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := d.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// DegradedCount returns how many embeddings fell back to zero vectors.
func (d *Degraded) DegradedCount() uint64 {
	return d.count.Load()
}

// Dimensions returns the embedding vector size.
func (d *Degraded) Dimensions() int {
	return d.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (d *Degraded) ModelName() string {
	return d.inner.ModelName()
}

// Ping delegates to the wrapped service.
func (d *Degraded) Ping(ctx context.Context) error {
	return d.inner.Ping(ctx)
}

// Close delegates to the wrapped service.
func (d *Degraded) Close() error {
	return d.inner.Close()
}
