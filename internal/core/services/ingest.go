package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/custodia-labs/kbase-cli/internal/chunker"
	"github.com/custodia-labs/kbase-cli/internal/cleaner"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure IngestCoordinator implements the interface.
var _ driving.IngestService = (*IngestCoordinator)(nil)

// embedBatchSize bounds how many chunk texts go to the embedding
// service per request.
const embedBatchSize = 32

// dirWorkers is the number of concurrent documents during directory
// ingestion. Concurrency is across documents, never within one.
const dirWorkers = 4

// IngestCoordinator drives the write path: normalise, chunk, embed,
// store, register. Storage happens before registration, so a crash in
// between leaves orphan vectors but never a registered document without
// its chunks.
type IngestCoordinator struct {
	cfg      domain.KnowledgeBaseConfig
	cleaner  *cleaner.Cleaner
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
	registry driven.DocumentRegistry
}

// NewIngestCoordinator creates the ingestion coordinator.
func NewIngestCoordinator(
	cfg domain.KnowledgeBaseConfig,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	registry driven.DocumentRegistry,
) *IngestCoordinator {
	return &IngestCoordinator{
		cfg:     cfg,
		cleaner: cleaner.New(),
		chunker: chunker.New(
			chunker.WithChunkSize(cfg.ChunkSize),
			chunker.WithOverlap(cfg.ChunkOverlap),
		),
		embedder: embedder,
		store:    store,
		registry: registry,
	}
}

// Ingest reads and ingests a single file. Rejections come back in the
// outcome; only pipeline failures (IO, storage) are errors.
func (c *IngestCoordinator) Ingest(ctx context.Context, sourcePath string) (*domain.IngestOutcome, error) {
	displayName := domain.DisplayNameForPath(sourcePath)

	kind, ok := domain.KindForExtension(filepath.Ext(sourcePath))
	if !ok {
		logger.Debug("skipping %s: unsupported extension", sourcePath)
		return &domain.IngestOutcome{
			Reason:      domain.ReasonUnsupported,
			DisplayName: displayName,
		}, nil
	}
	if !c.cfg.Accepts(kind) {
		return &domain.IngestOutcome{
			Reason:      domain.ReasonUnsupported,
			DisplayName: displayName,
			Kind:        kind,
		}, nil
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", sourcePath, err)
	}
	if info.Size() > c.cfg.MaxFileSize {
		logger.Debug("skipping %s: %d bytes exceeds limit", sourcePath, info.Size())
		return &domain.IngestOutcome{
			Reason:      domain.ReasonTooLarge,
			DisplayName: displayName,
			Kind:        kind,
		}, nil
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sourcePath, err)
	}

	return c.ingestBytes(ctx, data, sourcePath, displayName, kind)
}

// IngestText ingests already-extracted text handed over by an external
// extractor. The kind defaults to extracted when unset.
func (c *IngestCoordinator) IngestText(ctx context.Context, raw domain.RawText) (*domain.IngestOutcome, error) {
	kind := raw.Kind
	if kind == "" {
		kind = domain.KindExtracted
	}
	if _, err := domain.ParseSourceKind(string(kind)); err != nil {
		return nil, err
	}

	displayName := domain.DisplayNameForPath(raw.SourcePath)
	if raw.SourcePath == "" {
		return nil, fmt.Errorf("%w: extracted text requires a source path", domain.ErrInvalidInput)
	}

	if !c.cfg.Accepts(kind) {
		return &domain.IngestOutcome{
			Reason:      domain.ReasonUnsupported,
			DisplayName: displayName,
			Kind:        kind,
		}, nil
	}
	if int64(len(raw.Text)) > c.cfg.MaxFileSize {
		return &domain.IngestOutcome{
			Reason:      domain.ReasonTooLarge,
			DisplayName: displayName,
			Kind:        kind,
		}, nil
	}

	return c.ingestBytes(ctx, []byte(raw.Text), raw.SourcePath, displayName, kind)
}

// ingestBytes runs the shared pipeline on raw content.
func (c *IngestCoordinator) ingestBytes(
	ctx context.Context, data []byte, sourcePath, displayName string, kind domain.SourceKind,
) (*domain.IngestOutcome, error) {
	hash := domain.ContentHash(data)

	// Fast-path duplicate check; the registry insert below still guards
	// against concurrent ingestion of the same content.
	if _, err := c.registry.GetByHash(ctx, hash); err == nil {
		logger.Debug("skipping %s: already ingested as %s", displayName, hash[:12])
		return duplicateOutcome(hash, displayName, kind), nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking for duplicate: %w", err)
	}

	cleaned := c.cleaner.Clean(string(data))
	if cleaned == "" {
		return &domain.IngestOutcome{
			Reason:      domain.ReasonEmpty,
			ContentHash: hash,
			DisplayName: displayName,
			Kind:        kind,
		}, nil
	}

	chunks := c.chunker.Chunk(cleaned, hash, map[string]any{
		"source_path":  sourcePath,
		"display_name": displayName,
		"source_kind":  string(kind),
	})
	logger.Debug("chunked %s into %d pieces", displayName, len(chunks))

	vectors, err := c.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", displayName, err)
	}

	if err := c.store.Add(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("storing vectors for %s: %w", displayName, err)
	}

	rec := &domain.DocumentRecord{
		ContentHash: hash,
		SourcePath:  sourcePath,
		DisplayName: displayName,
		ByteSize:    int64(len(data)),
		Kind:        kind,
		IngestedAt:  time.Now().UTC(),
		ChunkCount:  len(chunks),
	}
	if err := c.registry.Save(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			// A concurrent ingest of identical content won the race. The
			// chunk IDs are deterministic, so the vectors just written are
			// the same entries the winner wrote; leave them in place.
			return duplicateOutcome(hash, displayName, kind), nil
		}

		// Registration failed: roll the vectors back so the store never
		// holds chunks for an unregistered document.
		if delErr := c.store.Delete(ctx, rec.ChunkIDs()); delErr != nil {
			logger.Warn("rollback of %d chunks failed: %v", len(chunks), delErr)
		}
		return nil, fmt.Errorf("registering %s: %w", displayName, err)
	}

	logger.Info("ingested %s (%d chunks)", displayName, len(chunks))
	return &domain.IngestOutcome{
		Accepted:      true,
		ContentHash:   hash,
		DisplayName:   displayName,
		Kind:          kind,
		ChunksWritten: len(chunks),
	}, nil
}

func duplicateOutcome(hash, displayName string, kind domain.SourceKind) *domain.IngestOutcome {
	return &domain.IngestOutcome{
		Reason:      domain.ReasonDuplicate,
		ContentHash: hash,
		DisplayName: displayName,
		Kind:        kind,
	}
}

// embedChunks embeds chunk texts in bounded batches.
func (c *IngestCoordinator) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i, chunk := range chunks[start:end] {
			texts[i] = chunk.Text
		}

		batch, err := c.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// IngestDirectory ingests all regular files under dir whose base name
// matches pattern. Documents are processed concurrently; a failure in
// one never aborts the others.
func (c *IngestCoordinator) IngestDirectory(ctx context.Context, dir, pattern string) (*domain.BatchOutcome, error) {
	if pattern == "" {
		pattern = "*"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %v", domain.ErrInvalidInput, pattern, err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}

	batch := &domain.BatchOutcome{RunID: uuid.NewString()}
	logger.Section("Batch Ingestion")
	logger.Info("run %s: %d files under %s", batch.RunID, len(files), dir)

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		queue = make(chan string)
	)

	for i := 0; i < dirWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				outcome, err := c.Ingest(ctx, path)

				mu.Lock()
				if err != nil {
					batch.Failed++
					batch.Files = append(batch.Files, domain.FileOutcome{Path: path, Err: err.Error()})
				} else {
					if outcome.Accepted {
						batch.Ingested++
					} else {
						batch.Skipped++
					}
					batch.Files = append(batch.Files, domain.FileOutcome{Path: path, Outcome: outcome})
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return batch, ctx.Err()
		case queue <- path:
		}
	}
	close(queue)
	wg.Wait()

	logger.Info("run %s: %d ingested, %d skipped, %d failed",
		batch.RunID, batch.Ingested, batch.Skipped, batch.Failed)
	return batch, nil
}

// Watch ingests files as they are created or modified under dir until
// the context is cancelled. Rejections and per-file failures are logged
// and skipped.
func (c *IngestCoordinator) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}

			outcome, err := c.Ingest(ctx, event.Name)
			switch {
			case err != nil:
				logger.Warn("ingesting %s: %v", event.Name, err)
			case outcome.Accepted:
				logger.Info("ingested %s (%d chunks)", outcome.DisplayName, outcome.ChunksWritten)
			default:
				logger.Debug("skipped %s: %s", outcome.DisplayName, outcome.Reason)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
