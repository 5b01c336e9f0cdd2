package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/registry/memory"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/vectorstore/flat"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

const testDims = 4

// fakeEmbedder produces small deterministic vectors so similarity
// ordering in tests is predictable.
type fakeEmbedder struct {
	failing bool
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("embedder down")
	}
	vec := make([]float32, testDims)
	for i, r := range text {
		vec[i%testDims] += float32(r % 31)
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return testDims }
func (f *fakeEmbedder) ModelName() string            { return "fake" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// failingRegistry wraps the in-memory registry and fails every Save.
type failingRegistry struct {
	*memory.Store
}

func (f *failingRegistry) Save(_ context.Context, _ *domain.DocumentRecord) error {
	return errors.New("disk full")
}

// fakeConfigStore records saves in memory.
type fakeConfigStore struct {
	cfg   domain.KnowledgeBaseConfig
	saves int
}

func (f *fakeConfigStore) Load() (domain.KnowledgeBaseConfig, error) { return f.cfg, nil }
func (f *fakeConfigStore) Save(cfg domain.KnowledgeBaseConfig) error {
	f.cfg = cfg
	f.saves++
	return nil
}
func (f *fakeConfigStore) Path() string { return "/dev/null/config.toml" }

func testConfig() domain.KnowledgeBaseConfig {
	cfg := domain.DefaultConfig()
	cfg.ChunkSize = 50
	cfg.ChunkOverlap = 10
	return cfg
}

func flatAndMemory() (*flat.Store, *memory.Store) {
	return flat.New(testDims), memory.NewStore()
}

func newTestCoordinator() (*IngestCoordinator, *flat.Store, *memory.Store) {
	store := flat.New(testDims)
	registry := memory.NewStore()
	coord := NewIngestCoordinator(testConfig(), &fakeEmbedder{}, store, registry)
	return coord, store, registry
}

func acceptAny(string) error { return nil }

func rejectAll(id string) error { return fmt.Errorf("unknown id %q", id) }
