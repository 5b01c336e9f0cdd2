package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateDocument indicates content with the same hash is already
	// registered. Reported as a skipped outcome during ingestion, not a failure.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedKind indicates a file type the pipeline cannot ingest directly.
	ErrUnsupportedKind = errors.New("unsupported source kind")

	// ErrFileTooLarge indicates content above the configured maximum size.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrProfileUnavailable indicates the requested embedding profile cannot
	// be loaded in this environment. Surfaced at initialisation, never worked
	// around: silently substituting a profile with a different dimensionality
	// would corrupt an existing store.
	ErrProfileUnavailable = errors.New("embedding profile unavailable")

	// ErrDimensionMismatch indicates a vector whose length does not match the
	// store's dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrBackendUnavailable indicates the vector store backend cannot serve
	// the operation. Fatal for the current operation.
	ErrBackendUnavailable = errors.New("vector store backend unavailable")

	// ErrCorruptRegistry indicates the document registry cannot be read.
	// Surfaced as a startup error so the operator can intervene; the
	// knowledge base is never silently treated as empty.
	ErrCorruptRegistry = errors.New("document registry corrupted")
)
