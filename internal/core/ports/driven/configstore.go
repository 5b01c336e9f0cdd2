package driven

import "github.com/custodia-labs/kbase-cli/internal/core/domain"

// ConfigStore persists the knowledge base configuration.
// Loaded once at startup; saved on every mutating admin operation.
type ConfigStore interface {
	// Load reads the configuration, returning defaults when none exists yet.
	Load() (domain.KnowledgeBaseConfig, error)

	// Save persists the configuration.
	Save(cfg domain.KnowledgeBaseConfig) error

	// Path returns the configuration file location.
	Path() string
}
