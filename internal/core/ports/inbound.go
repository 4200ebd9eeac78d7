package ports

import (
	"context"
	"io"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

// LesionAssessor is the inbound contract for the synchronous
// image-to-report pipeline.
type LesionAssessor interface {
	Assess(ctx context.Context, filename string, body io.Reader) (*domain.Report, error)
}

// SubmissionIngestor is the inbound contract for queueing an image for
// asynchronous assessment.
type SubmissionIngestor interface {
	Submit(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Submission, error)
}

// SubmissionProcessor is the inbound contract for worker-side processing.
type SubmissionProcessor interface {
	ProcessByID(ctx context.Context, submissionID string) error
}

// HistoryExporter writes past assessment outcomes to a workbook file.
type HistoryExporter interface {
	Export(ctx context.Context, outputPath string, limit int) (int, error)
}
