package driving

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// AdminService exposes administration of the knowledge base.
type AdminService interface {
	// ListDocuments returns all registered documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error)

	// DeleteDocument removes a document by display name together with all of
	// its chunks. Registry entry and backend entries are removed together.
	DeleteDocument(ctx context.Context, displayName string) (*domain.DocumentRecord, error)

	// Stats reports durable state: document count, chunk count, backend,
	// profile, dimensionality and the degraded-embedding counter.
	Stats(ctx context.Context) (*domain.KnowledgeBaseStats, error)

	// SetProfile switches the embedding profile and persists the config.
	// The existing store keeps its old dimensionality: the caller must
	// re-initialise (and conceptually re-ingest) before the new profile
	// takes effect.
	SetProfile(ctx context.Context, profileID string) error

	// SetBackend switches the storage backend and persists the config.
	// Takes effect on next process start.
	SetBackend(ctx context.Context, backendID string) error
}
