package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

func TestKnownBackends(t *testing.T) {
	assert.Equal(t, []string{"chromem", "flat"}, KnownBackends())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("chromem"))
	assert.True(t, Valid("flat"))
	assert.False(t, Valid("pinecone"))
}

func TestOpen_Flat(t *testing.T) {
	store, err := Open("flat", t.TempDir(), 8)
	require.NoError(t, err)
	defer store.Close()
}

func TestOpen_Chromem(t *testing.T) {
	store, err := Open("chromem", t.TempDir(), 8)
	require.NoError(t, err)
	defer store.Close()
}

func TestOpen_ChromemResetsCorruptStore(t *testing.T) {
	// Plant garbage where chromem expects its collection files so the
	// first open fails; the factory must wipe the directory and rebuild.
	dir := t.TempDir()
	collDir := filepath.Join(dir, "badcoll")
	require.NoError(t, os.MkdirAll(collDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(collDir, "00000000.gob"), []byte("not a gob stream"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(collDir, "corrupt.gob"), []byte("also not a gob stream"), 0600))

	store, err := Open("chromem", dir, 8)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "chromem", stats.Backend)
	assert.Zero(t, stats.TotalChunks)

	// The corrupt collection directory was removed by the reset
	_, err = os.Stat(collDir)
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("pinecone", t.TempDir(), 8)
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
