package driving

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// IngestService is the write path of the pipeline.
type IngestService interface {
	// Ingest reads and ingests a single file. Rejections (unsupported type,
	// oversize, duplicate) are reported in the outcome, not as errors.
	Ingest(ctx context.Context, sourcePath string) (*domain.IngestOutcome, error)

	// IngestText ingests already-extracted text handed over by an external
	// extractor together with its provenance.
	IngestText(ctx context.Context, raw domain.RawText) (*domain.IngestOutcome, error)

	// IngestDirectory ingests all files under dir whose base name matches the
	// glob pattern. Per-document failures never abort the batch.
	IngestDirectory(ctx context.Context, dir, pattern string) (*domain.BatchOutcome, error)

	// Watch ingests files as they are created or modified under dir,
	// until the context is cancelled.
	Watch(ctx context.Context, dir string) error
}
