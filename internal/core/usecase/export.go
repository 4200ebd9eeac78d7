package usecase

import (
	"context"
	"fmt"

	"github.com/ekovalenko/skincheck/internal/core/ports"
)

const defaultExportLimit = 100

type ExportHistoryUseCase struct {
	repo   ports.SubmissionRepository
	writer ports.HistoryWriter
}

func NewExportHistoryUseCase(repo ports.SubmissionRepository, writer ports.HistoryWriter) *ExportHistoryUseCase {
	return &ExportHistoryUseCase{
		repo:   repo,
		writer: writer,
	}
}

// Export writes the most recent submissions to a workbook at outputPath
// and reports how many rows it wrote.
func (uc *ExportHistoryUseCase) Export(ctx context.Context, outputPath string, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultExportLimit
	}

	submissions, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list submissions: %w", err)
	}

	if err := uc.writer.Write(ctx, outputPath, submissions); err != nil {
		return 0, fmt.Errorf("write history workbook: %w", err)
	}

	return len(submissions), nil
}
