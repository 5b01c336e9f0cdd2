// Package memory provides an in-memory document registry for tests
// and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentRegistry = (*Store)(nil)

// Store keeps document records in a map guarded by a read-write mutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
}

// NewStore creates an empty registry.
func NewStore() *Store {
	return &Store{
		records: make(map[string]domain.DocumentRecord),
	}
}

// Save inserts a new record. An existing record with the same content
// hash yields domain.ErrDuplicateDocument.
func (s *Store) Save(_ context.Context, rec *domain.DocumentRecord) error {
	if rec == nil || rec.ContentHash == "" {
		return fmt.Errorf("%w: record requires a content hash", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ContentHash]; exists {
		return fmt.Errorf("%w: content hash %s", domain.ErrDuplicateDocument, rec.ContentHash)
	}
	s.records[rec.ContentHash] = *rec
	return nil
}

// GetByHash retrieves a record by content hash.
func (s *Store) GetByHash(_ context.Context, contentHash string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[contentHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// GetByName retrieves the most recently ingested record with the given
// display name.
func (s *Store) GetByName(_ context.Context, displayName string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.DocumentRecord
	for _, rec := range s.records {
		if rec.DisplayName != displayName {
			continue
		}
		if found == nil || rec.IngestedAt.After(found.IngestedAt) {
			r := rec
			found = &r
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// Delete removes a record by content hash.
func (s *Store) Delete(_ context.Context, contentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[contentHash]; !ok {
		return fmt.Errorf("%w: content hash %s", domain.ErrNotFound, contentHash)
	}
	delete(s.records, contentHash)
	return nil
}

// List returns all records, newest first.
func (s *Store) List(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.DocumentRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].IngestedAt.After(records[j].IngestedAt)
	})
	return records, nil
}

// Count returns the number of documents and the sum of their chunk counts.
func (s *Store) Count(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := 0
	for _, rec := range s.records {
		chunks += rec.ChunkCount
	}
	return len(s.records), chunks, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
