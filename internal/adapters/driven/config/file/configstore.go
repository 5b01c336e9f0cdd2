// Package file provides a TOML-backed configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the on-disk TOML shape of the configuration.
type fileConfig struct {
	EmbeddingProfile string   `toml:"embedding_profile"`
	StorageBackend   string   `toml:"storage_backend"`
	ChunkSize        int      `toml:"chunk_size"`
	ChunkOverlap     int      `toml:"chunk_overlap"`
	MaxFileSize      int64    `toml:"max_file_size"`
	AcceptedKinds    []string `toml:"accepted_kinds,omitempty"`
}

// ConfigStore persists the knowledge base configuration as a TOML file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a config store rooted at configDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the configuration file. A missing file yields the default
// configuration; a malformed one is an error.
func (s *ConfigStore) Load() (domain.KnowledgeBaseConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultConfig(), nil
		}
		return domain.KnowledgeBaseConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return domain.KnowledgeBaseConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := fromFileConfig(fc)
	if err := cfg.Validate(); err != nil {
		return domain.KnowledgeBaseConfig{}, fmt.Errorf("invalid config at %s: %w", s.filePath, err)
	}
	return cfg, nil
}

// Save persists the configuration with restricted permissions.
func (s *ConfigStore) Save(cfg domain.KnowledgeBaseConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFileConfig(cfg))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func toFileConfig(cfg domain.KnowledgeBaseConfig) fileConfig {
	kinds := make([]string, len(cfg.AcceptedKinds))
	for i, k := range cfg.AcceptedKinds {
		kinds[i] = string(k)
	}
	return fileConfig{
		EmbeddingProfile: cfg.EmbeddingProfile,
		StorageBackend:   cfg.StorageBackend,
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		MaxFileSize:      cfg.MaxFileSize,
		AcceptedKinds:    kinds,
	}
}

func fromFileConfig(fc fileConfig) domain.KnowledgeBaseConfig {
	cfg := domain.DefaultConfig()

	if fc.EmbeddingProfile != "" {
		cfg.EmbeddingProfile = fc.EmbeddingProfile
	}
	if fc.StorageBackend != "" {
		cfg.StorageBackend = fc.StorageBackend
	}
	if fc.ChunkSize > 0 {
		cfg.ChunkSize = fc.ChunkSize
	}
	if fc.ChunkOverlap >= 0 {
		cfg.ChunkOverlap = fc.ChunkOverlap
	}
	if fc.MaxFileSize > 0 {
		cfg.MaxFileSize = fc.MaxFileSize
	}
	if len(fc.AcceptedKinds) > 0 {
		cfg.AcceptedKinds = make([]domain.SourceKind, len(fc.AcceptedKinds))
		for i, k := range fc.AcceptedKinds {
			cfg.AcceptedKinds[i] = domain.SourceKind(k)
		}
	}
	return cfg
}
