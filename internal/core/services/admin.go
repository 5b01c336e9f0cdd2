package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure AdminCoordinator implements the interface.
var _ driving.AdminService = (*AdminCoordinator)(nil)

// DegradedCounter exposes how many embeddings fell back to zero
// vectors. Implemented by the degraded embedding decorator.
type DegradedCounter interface {
	DegradedCount() uint64
}

// Validator checks an identifier against the set a subsystem supports.
type Validator func(id string) error

// AdminCoordinator manages durable knowledge base state: the document
// registry, the vector store and the persisted configuration.
type AdminCoordinator struct {
	cfg         domain.KnowledgeBaseConfig
	registry    driven.DocumentRegistry
	store       driven.VectorStore
	configStore driven.ConfigStore
	embedder    driven.EmbeddingService

	// activeProfile is the profile the running embedder was built with.
	// SetProfile persists a new choice but cannot swap the embedder, so
	// stats keep reporting this one until restart.
	activeProfile string

	degraded     DegradedCounter
	validProfile Validator
	validBackend Validator
}

// NewAdminCoordinator creates the admin service. degraded may be nil
// when no degradation tracking is wired in.
func NewAdminCoordinator(
	cfg domain.KnowledgeBaseConfig,
	registry driven.DocumentRegistry,
	store driven.VectorStore,
	configStore driven.ConfigStore,
	embedder driven.EmbeddingService,
	degraded DegradedCounter,
	validProfile Validator,
	validBackend Validator,
) *AdminCoordinator {
	return &AdminCoordinator{
		cfg:           cfg,
		activeProfile: cfg.EmbeddingProfile,
		registry:      registry,
		store:         store,
		configStore:   configStore,
		embedder:      embedder,
		degraded:      degraded,
		validProfile:  validProfile,
		validBackend:  validBackend,
	}
}

// ListDocuments returns all registered documents, newest first.
func (a *AdminCoordinator) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	return a.registry.List(ctx)
}

// DeleteDocument removes a document by display name together with all
// of its chunks. Chunks go first: if chunk deletion fails the registry
// entry survives and the operation can be retried.
func (a *AdminCoordinator) DeleteDocument(ctx context.Context, displayName string) (*domain.DocumentRecord, error) {
	rec, err := a.registry.GetByName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", displayName, err)
	}

	if err := a.store.Delete(ctx, rec.ChunkIDs()); err != nil {
		return nil, fmt.Errorf("deleting chunks of %q: %w", displayName, err)
	}
	if err := a.registry.Delete(ctx, rec.ContentHash); err != nil {
		return nil, fmt.Errorf("deleting record of %q: %w", displayName, err)
	}

	logger.Info("deleted %s (%d chunks)", displayName, rec.ChunkCount)
	return rec, nil
}

// Stats reports durable state from the registry and the vector store.
// Profile and dimensionality describe the embedder this process is
// running; a profile switched via SetProfile shows up after restart.
func (a *AdminCoordinator) Stats(ctx context.Context) (*domain.KnowledgeBaseStats, error) {
	documents, _, err := a.registry.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	storeStats, err := a.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}

	stats := &domain.KnowledgeBaseStats{
		DocumentCount: documents,
		ChunkCount:    storeStats.TotalChunks,
		Backend:       storeStats.Backend,
		Profile:       a.activeProfile,
		Dimensions:    a.embedder.Dimensions(),
	}
	if a.degraded != nil {
		stats.DegradedEmbeddings = a.degraded.DegradedCount()
	}
	return stats, nil
}

// SetProfile switches the embedding profile and persists the config.
// The change takes effect on next process start; vectors produced under
// the old profile are not comparable and must be re-ingested.
func (a *AdminCoordinator) SetProfile(_ context.Context, profileID string) error {
	if err := a.validProfile(profileID); err != nil {
		return err
	}

	cfg := a.cfg
	cfg.EmbeddingProfile = profileID
	if err := a.configStore.Save(cfg); err != nil {
		return fmt.Errorf("persisting profile change: %w", err)
	}
	a.cfg = cfg

	logger.Info("embedding profile set to %s", profileID)
	return nil
}

// SetBackend switches the storage backend and persists the config.
// Takes effect on next process start.
func (a *AdminCoordinator) SetBackend(_ context.Context, backendID string) error {
	if err := a.validBackend(backendID); err != nil {
		return err
	}

	cfg := a.cfg
	cfg.StorageBackend = backendID
	if err := a.configStore.Save(cfg); err != nil {
		return fmt.Errorf("persisting backend change: %w", err)
	}
	a.cfg = cfg

	logger.Info("storage backend set to %s", backendID)
	return nil
}
