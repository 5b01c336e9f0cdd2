package chromem

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), 3)
	require.NoError(t, err)
	return s
}

func testChunk(hash string, ordinal, total int, text string) domain.Chunk {
	return domain.Chunk{
		ID:           domain.ChunkID(hash, ordinal),
		DocumentHash: hash,
		Text:         text,
		Ordinal:      ordinal,
		TotalChunks:  total,
		Metadata:     map[string]any{"display_name": "doc-" + hash},
	}
}

func TestAddAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk("aaa", 0, 2, "first chunk"),
		testChunk("aaa", 1, 2, "second chunk"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}
	require.NoError(t, s.Add(ctx, chunks, vectors))

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	top := hits[0]
	assert.Equal(t, "aaa_0", top.Chunk.ID)
	assert.Equal(t, "first chunk", top.Chunk.Text)
	assert.Equal(t, "aaa", top.Chunk.DocumentHash)
	assert.Equal(t, 0, top.Chunk.Ordinal)
	assert.Equal(t, 2, top.Chunk.TotalChunks)
	assert.Equal(t, "doc-aaa", top.Chunk.Metadata["display_name"])
	assert.Greater(t, top.Similarity, hits[1].Similarity)
}

func TestSearch_EmptyCollection(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_TopKClampedToCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx,
		[]domain.Chunk{testChunk("aaa", 0, 1, "only chunk")},
		[][]float32{{1, 0, 0}},
	))

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	s := newTestStore(t)

	err := s.Add(context.Background(),
		[]domain.Chunk{testChunk("aaa", 0, 1, "x")},
		[][]float32{{1, 0}},
	)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Search(context.Background(), []float32{1, 0}, 1)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx,
		[]domain.Chunk{testChunk("aaa", 0, 2, "x"), testChunk("aaa", 1, 2, "y")},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	))

	require.NoError(t, s.Delete(ctx, []string{"aaa_0", "aaa_1"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalChunks)
}

func TestSearch_ZeroVectorScoresZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A chunk embedded during a provider outage is stored as a zero
	// vector; it must score 0 like in the flat backend, never NaN.
	require.NoError(t, s.Add(ctx,
		[]domain.Chunk{
			testChunk("ok", 0, 1, "healthy chunk"),
			testChunk("deg", 0, 1, "degraded chunk"),
		},
		[][]float32{
			{1, 0, 0},
			{0, 0, 0},
		},
	))

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	for _, hit := range hits {
		assert.False(t, math.IsNaN(hit.Similarity), "hit %s has NaN similarity", hit.Chunk.ID)
	}
	assert.Equal(t, "ok_0", hits[0].Chunk.ID)
	assert.Equal(t, "deg_0", hits[1].Chunk.ID)
	assert.Zero(t, hits[1].Similarity)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir, 3)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx,
		[]domain.Chunk{testChunk("aaa", 0, 1, "durable chunk")},
		[][]float32{{1, 0, 0}},
	))
	require.NoError(t, s.Close())

	reopened, err := New(dir, 3)
	require.NoError(t, err)

	hits, err := reopened.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "durable chunk", hits[0].Chunk.Text)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BackendName, stats.Backend)
	assert.Equal(t, 3, stats.Dimensions)
}
