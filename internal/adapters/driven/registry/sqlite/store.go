// Package sqlite provides the SQLite-backed document registry.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/registry/sqlite/migrations"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentRegistry = (*Store)(nil)

// timeLayout is fixed-width so string comparison in ORDER BY matches
// chronological order (RFC3339Nano trims trailing zeros and does not).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed document registry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the registry database under dataDir.
// A database that cannot be opened or migrated surfaces as
// domain.ErrCorruptRegistry so the caller can stop before touching
// vector state.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	// WAL mode for better concurrency during batch ingestion
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrCorruptRegistry, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrCorruptRegistry, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save inserts a new record. An existing record with the same content
// hash yields domain.ErrDuplicateDocument.
func (s *Store) Save(ctx context.Context, rec *domain.DocumentRecord) error {
	if rec == nil || rec.ContentHash == "" {
		return fmt.Errorf("%w: record requires a content hash", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (content_hash, source_path, display_name, byte_size, source_kind, ingested_at, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ContentHash,
		rec.SourcePath,
		rec.DisplayName,
		rec.ByteSize,
		string(rec.Kind),
		rec.IngestedAt.UTC().Format(timeLayout),
		rec.ChunkCount,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: content hash %s", domain.ErrDuplicateDocument, rec.ContentHash)
		}
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// GetByHash retrieves a record by content hash.
func (s *Store) GetByHash(ctx context.Context, contentHash string) (*domain.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT content_hash, source_path, display_name, byte_size, source_kind, ingested_at, chunk_count
		FROM documents WHERE content_hash = ?`, contentHash)
	return scanRecord(row)
}

// GetByName retrieves the most recently ingested record with the given
// display name.
func (s *Store) GetByName(ctx context.Context, displayName string) (*domain.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT content_hash, source_path, display_name, byte_size, source_kind, ingested_at, chunk_count
		FROM documents WHERE display_name = ?
		ORDER BY ingested_at DESC LIMIT 1`, displayName)
	return scanRecord(row)
}

// Delete removes a record by content hash.
func (s *Store) Delete(ctx context.Context, contentHash string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE content_hash = ?", contentHash)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: content hash %s", domain.ErrNotFound, contentHash)
	}
	return nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content_hash, source_path, display_name, byte_size, source_kind, ingested_at, chunk_count
		FROM documents ORDER BY ingested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []domain.DocumentRecord
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return records, nil
}

// Count returns the number of documents and the sum of their chunk counts.
func (s *Store) Count(ctx context.Context) (int, int, error) {
	var documents, chunks int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(chunk_count), 0) FROM documents")
	if err := row.Scan(&documents, &chunks); err != nil {
		return 0, 0, fmt.Errorf("counting documents: %w", err)
	}
	return documents, chunks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*domain.DocumentRecord, error) {
	rec, err := scanRecordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

func scanRecordRow(row rowScanner) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var kind, ingestedAt string

	if err := row.Scan(
		&rec.ContentHash,
		&rec.SourcePath,
		&rec.DisplayName,
		&rec.ByteSize,
		&kind,
		&ingestedAt,
		&rec.ChunkCount,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	rec.Kind = domain.SourceKind(kind)
	ts, err := time.Parse(timeLayout, ingestedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing ingested_at: %w", err)
	}
	rec.IngestedAt = ts

	return &rec, nil
}
