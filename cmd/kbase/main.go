// Command kbase is a personal knowledge base with semantic retrieval.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/registry/sqlite"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/services"
)

// Embedding request throttle, shared by local and hosted providers.
const (
	embedRPS   = 10
	embedBurst = 5
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir, err := resolveBaseDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	base, err := embedding.NewFromProfile(cfg.EmbeddingProfile)
	if err != nil {
		return err
	}
	embedder := embedding.NewDegraded(embedding.NewThrottled(base, embedRPS, embedBurst))
	defer embedder.Close()

	store, err := vectorstore.Open(cfg.StorageBackend, filepath.Join(baseDir, "vectors"), embedder.Dimensions())
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := sqlite.NewStore(baseDir)
	if err != nil {
		return err
	}
	defer registry.Close()

	ingest := services.NewIngestCoordinator(cfg, embedder, store, registry)
	query := services.NewQueryCoordinator(embedder, store)
	admin := services.NewAdminCoordinator(
		cfg, registry, store, configStore, embedder, embedder,
		func(id string) error {
			_, err := embedding.LookupProfile(id)
			return err
		},
		func(id string) error {
			if !vectorstore.Valid(id) {
				return fmt.Errorf("%w: unknown backend %q (known: %v)",
					domain.ErrBackendUnavailable, id, vectorstore.KnownBackends())
			}
			return nil
		},
	)

	cli.SetServices(ingest, query, admin)
	return cli.Execute()
}

// resolveBaseDir returns the knowledge base directory: $KBASE_DIR when
// set, otherwise ~/.kbase.
func resolveBaseDir() (string, error) {
	if dir := os.Getenv("KBASE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".kbase"), nil
}
