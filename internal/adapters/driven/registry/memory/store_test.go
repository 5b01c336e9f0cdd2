package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

func record(hash, name string, ingestedAt time.Time) *domain.DocumentRecord {
	return &domain.DocumentRecord{
		ContentHash: hash,
		DisplayName: name,
		Kind:        domain.KindText,
		IngestedAt:  ingestedAt,
		ChunkCount:  2,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record("h1", "a.txt", time.Now())))

	got, err := s.GetByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.DisplayName)

	err = s.Save(ctx, record("h1", "b.txt", time.Now()))
	require.ErrorIs(t, err, domain.ErrDuplicateDocument)
}

func TestGetByName_MostRecentWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record("h1", "n.md", time.Now().Add(-time.Hour))))
	require.NoError(t, s.Save(ctx, record("h2", "n.md", time.Now())))

	got, err := s.GetByName(ctx, "n.md")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.ContentHash)
}

func TestDeleteAndCount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record("h1", "a.txt", time.Now())))
	require.NoError(t, s.Save(ctx, record("h2", "b.txt", time.Now())))

	docs, chunks, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, docs)
	assert.Equal(t, 4, chunks)

	require.NoError(t, s.Delete(ctx, "h1"))
	require.ErrorIs(t, s.Delete(ctx, "h1"), domain.ErrNotFound)

	docs, _, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, docs)
}

func TestList_NewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.Save(ctx, record("h1", "a.txt", base.Add(-time.Minute))))
	require.NoError(t, s.Save(ctx, record("h2", "b.txt", base)))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "h2", records[0].ContentHash)
}
