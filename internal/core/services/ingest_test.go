package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngest_AcceptsTextFile(t *testing.T) {
	coord, store, registry := newTestCoordinator()
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "notes.txt",
		"First sentence of the note. Second sentence with more words. Third one to spill over.")

	outcome, err := coord.Ingest(ctx, path)
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Empty(t, outcome.Reason)
	assert.Equal(t, "notes.txt", outcome.DisplayName)
	assert.Equal(t, domain.KindText, outcome.Kind)
	assert.Positive(t, outcome.ChunksWritten)

	rec, err := registry.GetByHash(ctx, outcome.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, outcome.ChunksWritten, rec.ChunkCount)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, outcome.ChunksWritten, stats.TotalChunks)
}

func TestIngest_DuplicateContent(t *testing.T) {
	coord, store, _ := newTestCoordinator()
	ctx := context.Background()
	dir := t.TempDir()

	first := writeFile(t, dir, "a.txt", "Same content in both files.")
	second := writeFile(t, dir, "b.txt", "Same content in both files.")

	out1, err := coord.Ingest(ctx, first)
	require.NoError(t, err)
	require.True(t, out1.Accepted)

	out2, err := coord.Ingest(ctx, second)
	require.NoError(t, err)
	assert.False(t, out2.Accepted)
	assert.Equal(t, domain.ReasonDuplicate, out2.Reason)
	assert.Equal(t, out1.ContentHash, out2.ContentHash)

	// No extra chunks were written for the duplicate
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, out1.ChunksWritten, stats.TotalChunks)
}

func TestIngest_UnsupportedExtension(t *testing.T) {
	coord, _, _ := newTestCoordinator()

	path := writeFile(t, t.TempDir(), "report.pdf", "%PDF-1.4 binary stuff")

	outcome, err := coord.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, domain.ReasonUnsupported, outcome.Reason)
}

func TestIngest_KindNotAccepted(t *testing.T) {
	cfg := testConfig()
	cfg.AcceptedKinds = []domain.SourceKind{domain.KindCode}
	coord := NewIngestCoordinator(cfg, &fakeEmbedder{}, nil, nil)

	path := writeFile(t, t.TempDir(), "notes.txt", "Prose is not allowed here.")

	outcome, err := coord.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonUnsupported, outcome.Reason)
}

func TestIngest_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSize = 10
	store, registry := flatAndMemory()
	coord := NewIngestCoordinator(cfg, &fakeEmbedder{}, store, registry)

	path := writeFile(t, t.TempDir(), "big.txt", strings.Repeat("x", 100))

	outcome, err := coord.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonTooLarge, outcome.Reason)
}

func TestIngest_EmptyAfterCleaning(t *testing.T) {
	coord, _, _ := newTestCoordinator()

	// Only page furniture, nothing survives normalisation
	path := writeFile(t, t.TempDir(), "empty.txt", "Page 1\n2\n- 3 -\n")

	outcome, err := coord.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, domain.ReasonEmpty, outcome.Reason)
	assert.NotEmpty(t, outcome.ContentHash)
}

func TestIngest_MissingFile(t *testing.T) {
	coord, _, _ := newTestCoordinator()

	_, err := coord.Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
}

func TestIngest_RollsBackVectorsWhenRegistrationFails(t *testing.T) {
	store, registry := flatAndMemory()
	failing := &failingRegistry{Store: registry}
	coord := NewIngestCoordinator(testConfig(), &fakeEmbedder{}, store, failing)

	path := writeFile(t, t.TempDir(), "doomed.txt", "Content that will fail to register.")

	_, err := coord.Ingest(context.Background(), path)
	require.Error(t, err)

	stats, statErr := store.Stats(context.Background())
	require.NoError(t, statErr)
	assert.Zero(t, stats.TotalChunks, "vectors must be rolled back")
}

func TestIngestText(t *testing.T) {
	coord, _, registry := newTestCoordinator()
	ctx := context.Background()

	t.Run("extracted text is accepted", func(t *testing.T) {
		outcome, err := coord.IngestText(ctx, domain.RawText{
			Text:       "Text pulled out of a scanned report. It has two sentences.",
			SourcePath: "/scans/report.pdf",
		})
		require.NoError(t, err)
		assert.True(t, outcome.Accepted)
		assert.Equal(t, domain.KindExtracted, outcome.Kind)
		assert.Equal(t, "report.pdf", outcome.DisplayName)

		rec, err := registry.GetByHash(ctx, outcome.ContentHash)
		require.NoError(t, err)
		assert.Equal(t, domain.KindExtracted, rec.Kind)
	})

	t.Run("missing source path", func(t *testing.T) {
		_, err := coord.IngestText(ctx, domain.RawText{Text: "orphan text"})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := coord.IngestText(ctx, domain.RawText{
			Text:       "x",
			SourcePath: "/x.bin",
			Kind:       domain.SourceKind("hologram"),
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestIngestDirectory(t *testing.T) {
	coord, _, _ := newTestCoordinator()
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "one.txt", "Document one has unique content here.")
	writeFile(t, dir, "two.txt", "Document two is different from one.")
	writeFile(t, dir, "dupe.txt", "Document one has unique content here.")
	writeFile(t, dir, "skip.bin", "not matched by pattern")

	batch, err := coord.IngestDirectory(ctx, dir, "*.txt")
	require.NoError(t, err)

	assert.NotEmpty(t, batch.RunID)
	assert.Equal(t, 2, batch.Ingested)
	assert.Equal(t, 1, batch.Skipped)
	assert.Zero(t, batch.Failed)
	assert.Len(t, batch.Files, 3)
}

func TestIngestDirectory_FailuresDoNotAbort(t *testing.T) {
	store, registry := flatAndMemory()
	coord := NewIngestCoordinator(testConfig(), &fakeEmbedder{}, store, registry)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "good.txt", "A perfectly fine document.")
	// A directory matching the pattern is skipped silently
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0700))

	batch, err := coord.IngestDirectory(ctx, dir, "*.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Ingested)
	assert.Len(t, batch.Files, 1)
}

func TestIngestDirectory_EmptyDir(t *testing.T) {
	coord, _, _ := newTestCoordinator()

	batch, err := coord.IngestDirectory(context.Background(), t.TempDir(), "*")
	require.NoError(t, err)
	assert.Zero(t, batch.Ingested)
	assert.Empty(t, batch.Files)
}
