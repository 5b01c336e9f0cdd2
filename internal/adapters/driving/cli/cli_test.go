package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// mockServices implements all three driving ports with canned data.
type mockServices struct {
	deleted  string
	profile  string
	backend  string
	watchDir string
}

func (m *mockServices) Ingest(_ context.Context, sourcePath string) (*domain.IngestOutcome, error) {
	return &domain.IngestOutcome{
		Accepted:      true,
		ContentHash:   "deadbeef",
		DisplayName:   domain.DisplayNameForPath(sourcePath),
		Kind:          domain.KindText,
		ChunksWritten: 2,
	}, nil
}

func (m *mockServices) IngestText(_ context.Context, raw domain.RawText) (*domain.IngestOutcome, error) {
	return &domain.IngestOutcome{Accepted: true, DisplayName: domain.DisplayNameForPath(raw.SourcePath)}, nil
}

func (m *mockServices) IngestDirectory(_ context.Context, _, _ string) (*domain.BatchOutcome, error) {
	return &domain.BatchOutcome{RunID: "run-1", Ingested: 1}, nil
}

func (m *mockServices) Watch(ctx context.Context, dir string) error {
	m.watchDir = dir
	return ctx.Err()
}

func (m *mockServices) Query(_ context.Context, _ string, _ int) ([]domain.QueryResult, error) {
	return []domain.QueryResult{
		{ChunkText: "a chunk about roses", DocumentName: "garden.md", Similarity: 0.91, Rank: 1},
	}, nil
}

func (m *mockServices) ListDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	return []domain.DocumentRecord{
		{ContentHash: "deadbeef", DisplayName: "garden.md", Kind: domain.KindText, ChunkCount: 3, IngestedAt: time.Now()},
	}, nil
}

func (m *mockServices) DeleteDocument(_ context.Context, name string) (*domain.DocumentRecord, error) {
	m.deleted = name
	return &domain.DocumentRecord{DisplayName: name, ChunkCount: 3}, nil
}

func (m *mockServices) Stats(_ context.Context) (*domain.KnowledgeBaseStats, error) {
	return &domain.KnowledgeBaseStats{
		DocumentCount: 1, ChunkCount: 3, Backend: "flat", Profile: "nomic-embed-text", Dimensions: 768,
	}, nil
}

func (m *mockServices) SetProfile(_ context.Context, id string) error {
	m.profile = id
	return nil
}

func (m *mockServices) SetBackend(_ context.Context, id string) error {
	m.backend = id
	return nil
}

func setupTestServices() (*mockServices, func()) {
	mock := &mockServices{}
	SetServices(mock, mock, mock)
	return mock, func() {
		SetServices(nil, nil, nil)
		rootCmd.SetArgs(nil)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [question]", queryCmd.Use)
}

func TestQueryCmd_HasTopFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("top")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_PrintsResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "query", "roses")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "garden.md")
	assert.Contains(t, out, "0.910")
}

func TestQueryCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "query", "roses", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"document_name": "garden.md"`)
}

func TestQueryCmd_NoService(t *testing.T) {
	SetServices(nil, nil, nil)

	_, err := execute(t, "query", "roses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocumentsListCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "garden.md")
	assert.Contains(t, out, "3 chunks")
}

func TestDocumentsDeleteCmd(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "documents", "delete", "garden.md")
	require.NoError(t, err)
	assert.Equal(t, "garden.md", mock.deleted)
	assert.Contains(t, out, "Deleted garden.md")
}

func TestStatsCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:  1")
	assert.Contains(t, out, "nomic-embed-text")
}

func TestSettingsProfileCmd(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "profile", "all-minilm")
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", mock.profile)
	assert.Contains(t, out, "Re-ingest")
}

func TestSettingsBackendCmd(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "backend", "chromem")
	require.NoError(t, err)
	assert.Equal(t, "chromem", mock.backend)
}

func TestVersionCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kbase version")
}

func TestIngestCmd_HasPatternFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("pattern")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "*", flag.DefValue)
}
