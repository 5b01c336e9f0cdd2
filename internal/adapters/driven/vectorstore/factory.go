// Package vectorstore resolves configured backend names to concrete
// vector store implementations.
package vectorstore

import (
	"fmt"
	"os"
	"sort"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/vectorstore/chromem"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/vectorstore/flat"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

var backends = map[string]bool{
	chromem.BackendName: true,
	flat.BackendName:    true,
}

// KnownBackends returns the supported backend IDs, sorted.
func KnownBackends() []string {
	ids := make([]string, 0, len(backends))
	for id := range backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Valid reports whether backendID names a supported backend.
func Valid(backendID string) bool {
	return backends[backendID]
}

// Open creates the vector store for the configured backend. The chromem
// backend persists under dir; the flat backend is memory only and loses
// its contents when the process exits.
//
// A chromem store that fails to open is assumed corrupt: its directory
// is reset and opening is retried once. The registry still holds the
// document list, so the knowledge base can be re-ingested.
func Open(backendID, dir string, dimensions int) (driven.VectorStore, error) {
	switch backendID {
	case chromem.BackendName:
		store, err := chromem.New(dir, dimensions)
		if err == nil {
			return store, nil
		}

		logger.Warn("vector store at %s failed to open, resetting: %v", dir, err)
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return nil, fmt.Errorf("%w: reset vector store: %v (open error: %v)",
				domain.ErrBackendUnavailable, rmErr, err)
		}
		store, err = chromem.New(dir, dimensions)
		if err != nil {
			return nil, fmt.Errorf("%w: reopen after reset: %v", domain.ErrBackendUnavailable, err)
		}
		return store, nil

	case flat.BackendName:
		return flat.New(dimensions), nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q (known: %v)",
			domain.ErrBackendUnavailable, backendID, KnownBackends())
	}
}
