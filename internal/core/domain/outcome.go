package domain

// Rejection reasons reported in ingestion outcomes.
const (
	ReasonDuplicate   = "duplicate"
	ReasonUnsupported = "unsupported type"
	ReasonTooLarge    = "file too large"
	ReasonEmpty       = "empty document"
)

// IngestOutcome is the structured result of ingesting one document.
// Rejections are reported here, not as errors: a skipped document is a
// normal outcome and never aborts a batch.
type IngestOutcome struct {
	// Accepted is true when the document was chunked, embedded and registered.
	Accepted bool `json:"accepted"`

	// Reason explains a rejection; empty when accepted.
	Reason string `json:"reason,omitempty"`

	// ContentHash identifies the document (also set for duplicates).
	ContentHash string `json:"content_hash,omitempty"`

	// DisplayName is the document's human-readable name.
	DisplayName string `json:"display_name"`

	// Kind is the detected source kind.
	Kind SourceKind `json:"kind,omitempty"`

	// ChunksWritten is the number of chunks stored; zero when rejected.
	ChunksWritten int `json:"chunks_written"`
}

// FileOutcome pairs one file of a batch with its result.
type FileOutcome struct {
	// Path is the file that was processed.
	Path string `json:"path"`

	// Outcome is the per-document result; nil when Err is set.
	Outcome *IngestOutcome `json:"outcome,omitempty"`

	// Err holds the failure message for documents that errored.
	// A failed document never aborts the rest of the batch.
	Err string `json:"error,omitempty"`
}

// BatchOutcome aggregates the results of a directory ingestion run.
type BatchOutcome struct {
	// RunID identifies this batch run in logs and output.
	RunID string `json:"run_id"`

	// Ingested counts accepted documents.
	Ingested int `json:"ingested"`

	// Skipped counts rejected documents (duplicates, unsupported, oversize).
	Skipped int `json:"skipped"`

	// Failed counts documents that errored mid-pipeline.
	Failed int `json:"failed"`

	// Files lists per-file results in completion order.
	Files []FileOutcome `json:"files"`
}

// KnowledgeBaseStats summarises durable state for the stats operation.
type KnowledgeBaseStats struct {
	// DocumentCount is the number of registered documents.
	DocumentCount int `json:"document_count"`

	// ChunkCount is the number of chunks held by the vector store.
	ChunkCount int `json:"chunk_count"`

	// Backend names the active vector store backend.
	Backend string `json:"backend"`

	// Profile names the active embedding profile.
	Profile string `json:"profile"`

	// Dimensions is the vector dimensionality fixed by the profile.
	Dimensions int `json:"dimensions"`

	// DegradedEmbeddings counts chunks stored with a zero-vector fallback
	// after a transient embedding failure. Non-zero values mean ranking
	// quality is silently degraded for the affected chunks.
	DegradedEmbeddings uint64 `json:"degraded_embeddings"`
}
