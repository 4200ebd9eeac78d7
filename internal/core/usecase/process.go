package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/ekovalenko/skincheck/internal/core/domain"
	"github.com/ekovalenko/skincheck/internal/core/ports"
)

type ProcessSubmissionUseCase struct {
	repo     ports.SubmissionRepository
	storage  ports.ObjectStorage
	assessor ports.LesionAssessor
}

func NewProcessSubmissionUseCase(
	repo ports.SubmissionRepository,
	storage ports.ObjectStorage,
	assessor ports.LesionAssessor,
) *ProcessSubmissionUseCase {
	return &ProcessSubmissionUseCase{
		repo:     repo,
		storage:  storage,
		assessor: assessor,
	}
}

// ProcessByID drives one submission to a terminal status. A pipeline
// failure is recorded on the row; it is not retried here.
func (uc *ProcessSubmissionUseCase) ProcessByID(ctx context.Context, submissionID string) error {
	if err := uc.repo.MarkProcessing(ctx, submissionID); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	report, err := uc.runPipeline(ctx, submissionID)
	if err != nil {
		if failErr := uc.repo.MarkFailed(ctx, submissionID, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.MarkDone(ctx, submissionID, report.Result.Risk, report.Result.Explanation, report.Path); err != nil {
		return fmt.Errorf("set status=done: %w", err)
	}

	return nil
}

func (uc *ProcessSubmissionUseCase) runPipeline(ctx context.Context, submissionID string) (*domain.Report, error) {
	sub, err := uc.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	body, err := uc.openStoredImage(ctx, sub)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	report, err := uc.assessor.Assess(ctx, sub.Filename, body)
	if err != nil {
		return nil, fmt.Errorf("assess lesion: %w", err)
	}
	return report, nil
}

func (uc *ProcessSubmissionUseCase) loadSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	sub, err := uc.repo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("fetch submission by id: %w", err)
	}
	return sub, nil
}

func (uc *ProcessSubmissionUseCase) openStoredImage(ctx context.Context, sub *domain.Submission) (io.ReadCloser, error) {
	body, err := uc.storage.Open(ctx, sub.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open stored image: %w", err)
	}
	return body, nil
}
