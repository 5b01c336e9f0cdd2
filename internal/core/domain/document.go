package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SourceKind classifies the origin of ingested content.
type SourceKind string

// Supported source kinds.
const (
	// KindText is prose: plain text, markdown, notes.
	KindText SourceKind = "text"

	// KindCode is source code in any language.
	KindCode SourceKind = "code"

	// KindStructured is machine-oriented data rendered as text (JSON, CSV, YAML).
	KindStructured SourceKind = "structured"

	// KindExtracted is text pulled out of a binary container (PDF, DOCX, OCR)
	// by an external extractor. The pipeline never opens such containers itself.
	KindExtracted SourceKind = "extracted"
)

// kindByExtension maps file extensions to source kinds for direct file ingestion.
// Extracted formats are deliberately absent: their text arrives through the
// extractor boundary, not by reading the container.
var kindByExtension = map[string]SourceKind{
	".txt":  KindText,
	".md":   KindText,
	".rst":  KindText,
	".go":   KindCode,
	".py":   KindCode,
	".js":   KindCode,
	".ts":   KindCode,
	".rs":   KindCode,
	".java": KindCode,
	".c":    KindCode,
	".h":    KindCode,
	".sh":   KindCode,
	".html": KindCode,
	".css":  KindCode,
	".sql":  KindCode,
	".json": KindStructured,
	".csv":  KindStructured,
	".yaml": KindStructured,
	".yml":  KindStructured,
	".toml": KindStructured,
	".xml":  KindStructured,
}

// KindForExtension returns the source kind for a file extension.
// The extension match is case-insensitive. Returns false for
// extensions the pipeline cannot read directly.
func KindForExtension(ext string) (SourceKind, bool) {
	kind, ok := kindByExtension[strings.ToLower(ext)]
	return kind, ok
}

// ParseSourceKind validates a kind string coming from an external caller.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case KindText, KindCode, KindStructured, KindExtracted:
		return SourceKind(s), nil
	default:
		return "", fmt.Errorf("%w: source kind %q", ErrInvalidInput, s)
	}
}

// ContentHash computes the stable identity digest for a document's raw bytes.
// Identical bytes always yield the same hash, which is what makes
// re-ingestion detection and chunk ID derivation deterministic.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChunkID derives the deterministic identifier for a chunk from its
// document hash and ordinal position. Re-ingesting identical content
// produces identical IDs, so backend writes are idempotent.
func ChunkID(contentHash string, ordinal int) string {
	return fmt.Sprintf("%s_%d", contentHash, ordinal)
}

// DisplayNameForPath derives a human-readable document name from a source path.
func DisplayNameForPath(sourcePath string) string {
	return filepath.Base(sourcePath)
}

// DocumentRecord is the registry entry for one ingested source artifact.
// Records are immutable: re-ingesting changed content produces a new hash
// and therefore a new record.
type DocumentRecord struct {
	// ContentHash is the digest of the raw bytes, primary key.
	ContentHash string

	// SourcePath is the original location of the artifact.
	SourcePath string

	// DisplayName is the human-readable name used for administration.
	DisplayName string

	// ByteSize is the size of the raw content in bytes.
	ByteSize int64

	// Kind classifies the content.
	Kind SourceKind

	// IngestedAt is when the document completed ingestion.
	IngestedAt time.Time

	// ChunkCount is the number of chunks written for this document.
	ChunkCount int
}

// ChunkIDs enumerates the deterministic chunk identifiers for this record.
func (r *DocumentRecord) ChunkIDs() []string {
	ids := make([]string, r.ChunkCount)
	for i := range ids {
		ids[i] = ChunkID(r.ContentHash, i)
	}
	return ids
}

// Chunk is a contiguous span of normalized document text, the unit of
// embedding and retrieval. Once written, chunks are owned by the vector
// store; the ingestion pipeline holds them only transiently.
type Chunk struct {
	// ID is the deterministic identifier: content hash + ordinal.
	ID string

	// DocumentHash back-references the owning document record.
	DocumentHash string

	// Text is the chunk content.
	Text string

	// Ordinal is the position within the document, starting at zero.
	Ordinal int

	// TotalChunks is the number of chunks the document produced.
	TotalChunks int

	// Metadata carries provenance (source path, display name, timestamps).
	Metadata map[string]any
}

// RawText is the extractor-boundary tuple: already-extracted plain text
// plus its provenance. External extractors hand this to the pipeline;
// the pipeline never opens binary document containers.
type RawText struct {
	Text       string
	SourcePath string
	Kind       SourceKind
}

// QueryResult is one ranked retrieval hit. Ephemeral, never persisted.
type QueryResult struct {
	// ChunkText is the matched chunk content.
	ChunkText string `json:"chunk_text"`

	// DocumentName is the display name of the owning document.
	DocumentName string `json:"document_name"`

	// Metadata is the chunk metadata as stored.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Similarity is the backend-normalised score; higher is better.
	Similarity float64 `json:"similarity"`

	// Rank is the 1-based position in the result set.
	Rank int `json:"rank"`
}
