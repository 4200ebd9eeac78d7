package ports

import (
	"context"
	"io"
	"time"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

// ImageIntake validates and normalizes an uploaded image into an owned
// ImageAsset backed by a scoped temp file.
type ImageIntake interface {
	Prepare(ctx context.Context, filename string, body io.Reader) (*domain.ImageAsset, error)
}

// LesionAnalyzer sends the image to the external vision model and maps
// the reply to an assessment.
type LesionAnalyzer interface {
	Analyze(ctx context.Context, asset *domain.ImageAsset) (domain.AssessmentResult, error)
}

// ReportRenderer produces the PDF document bytes for an assessment.
type ReportRenderer interface {
	Render(asset *domain.ImageAsset, result domain.AssessmentResult, generatedAt time.Time) ([]byte, error)
}

// ReportStore persists rendered reports under the reports directory.
type ReportStore interface {
	SaveReport(ctx context.Context, filename string, data []byte) (string, error)
}

// ObjectStorage stores submitted source images.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes submission events.
type MessageQueue interface {
	PublishSubmissionCreated(ctx context.Context, submissionID string) error
	SubscribeSubmissionCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// SubmissionRepository persists and reads submission state.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id string, risk domain.RiskLevel, explanation, reportPath string) error
	MarkFailed(ctx context.Context, id string, errMessage string) error
	ListRecent(ctx context.Context, limit int) ([]domain.Submission, error)
}

// HistoryWriter renders submissions into an operator-facing workbook.
type HistoryWriter interface {
	Write(ctx context.Context, path string, submissions []domain.Submission) error
}
