package domain

import "fmt"

// Default configuration values.
const (
	DefaultEmbeddingProfile = "nomic-embed-text"
	DefaultStorageBackend   = "chromem"
	DefaultChunkSize        = 500
	DefaultChunkOverlap     = 100
	DefaultMaxFileSize      = 10 << 20 // 10 MiB
)

// KnowledgeBaseConfig is the process-wide configuration, set once at
// initialisation and read-only during ingestion and query. Mutating admin
// operations (profile switch, backend switch) persist it through the
// config store.
type KnowledgeBaseConfig struct {
	// EmbeddingProfile selects the embedding model and fixes the vector
	// dimensionality for the lifetime of the store.
	EmbeddingProfile string

	// StorageBackend selects the vector store backend.
	StorageBackend string

	// ChunkSize is the target chunk size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap window between consecutive chunks.
	// Zero disables overlap seeding.
	ChunkOverlap int

	// MaxFileSize is the largest ingestible file in bytes.
	MaxFileSize int64

	// AcceptedKinds restricts ingestion to these source kinds.
	// Empty means all kinds are accepted.
	AcceptedKinds []SourceKind
}

// DefaultConfig returns the configuration used when no config file exists yet.
func DefaultConfig() KnowledgeBaseConfig {
	return KnowledgeBaseConfig{
		EmbeddingProfile: DefaultEmbeddingProfile,
		StorageBackend:   DefaultStorageBackend,
		ChunkSize:        DefaultChunkSize,
		ChunkOverlap:     DefaultChunkOverlap,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// Validate checks the configuration for values that would break the pipeline.
func (c KnowledgeBaseConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap must be in [0, chunk size)", ErrInvalidInput)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max file size must be positive", ErrInvalidInput)
	}
	for _, kind := range c.AcceptedKinds {
		if _, err := ParseSourceKind(string(kind)); err != nil {
			return err
		}
	}
	return nil
}

// Accepts reports whether the configuration permits ingesting the given kind.
func (c KnowledgeBaseConfig) Accepts(kind SourceKind) bool {
	if len(c.AcceptedKinds) == 0 {
		return true
	}
	for _, k := range c.AcceptedKinds {
		if k == kind {
			return true
		}
	}
	return false
}
