// Package domain defines the core business entities for the knowledge base.
//
// This package is part of the hexagonal architecture's innermost layer.
// It holds document records, chunks, ingestion outcomes, query results and
// the process-wide configuration, and depends on nothing outside the
// standard library.
package domain
