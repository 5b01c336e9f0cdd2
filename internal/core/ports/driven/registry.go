package driven

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// DocumentRegistry persists document records keyed by content hash.
// Backed by SQLite in production; an in-memory implementation exists for tests.
type DocumentRegistry interface {
	// Save inserts a new record. Returns domain.ErrDuplicateDocument when a
	// record with the same content hash already exists; records are never
	// mutated in place.
	Save(ctx context.Context, rec *domain.DocumentRecord) error

	// GetByHash retrieves a record by content hash.
	GetByHash(ctx context.Context, contentHash string) (*domain.DocumentRecord, error)

	// GetByName retrieves the most recently ingested record with the given
	// display name.
	GetByName(ctx context.Context, displayName string) (*domain.DocumentRecord, error)

	// Delete removes a record by content hash.
	Delete(ctx context.Context, contentHash string) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Count returns the number of documents and the sum of their chunk counts.
	Count(ctx context.Context) (documents, chunks int, err error)

	// Close releases resources.
	Close() error
}
