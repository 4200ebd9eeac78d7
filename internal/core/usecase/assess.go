package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ekovalenko/skincheck/internal/core/domain"
	"github.com/ekovalenko/skincheck/internal/core/ports"
)

type AssessLesionUseCase struct {
	intake   ports.ImageIntake
	analyzer ports.LesionAnalyzer
	renderer ports.ReportRenderer
	reports  ports.ReportStore
}

func NewAssessLesionUseCase(
	intake ports.ImageIntake,
	analyzer ports.LesionAnalyzer,
	renderer ports.ReportRenderer,
	reports ports.ReportStore,
) *AssessLesionUseCase {
	return &AssessLesionUseCase{
		intake:   intake,
		analyzer: analyzer,
		renderer: renderer,
		reports:  reports,
	}
}

// Assess runs the full pipeline for one image. The first failing stage
// aborts the run; the returned error carries that stage. The image
// asset's temp file is released on every path, and no report file is
// written unless every stage before persistence succeeded.
func (uc *AssessLesionUseCase) Assess(ctx context.Context, filename string, body io.Reader) (*domain.Report, error) {
	requestID := uuid.NewString()

	asset, err := uc.prepareImage(ctx, filename, body)
	if err != nil {
		return nil, domain.TagStage(domain.StageIntake, err)
	}
	defer func() {
		_ = asset.Close()
	}()

	result, err := uc.analyze(ctx, asset)
	if err != nil {
		return nil, domain.TagStage(domain.StageAnalyzer, err)
	}

	report, err := uc.persistReport(ctx, requestID, asset, result)
	if err != nil {
		return nil, domain.TagStage(domain.StageReport, err)
	}
	return report, nil
}

func (uc *AssessLesionUseCase) prepareImage(ctx context.Context, filename string, body io.Reader) (*domain.ImageAsset, error) {
	asset, err := uc.intake.Prepare(ctx, filename, body)
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}
	return asset, nil
}

func (uc *AssessLesionUseCase) analyze(ctx context.Context, asset *domain.ImageAsset) (domain.AssessmentResult, error) {
	result, err := uc.analyzer.Analyze(ctx, asset)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("analyze lesion: %w", err)
	}
	return result, nil
}

func (uc *AssessLesionUseCase) persistReport(
	ctx context.Context,
	requestID string,
	asset *domain.ImageAsset,
	result domain.AssessmentResult,
) (*domain.Report, error) {
	generatedAt := time.Now().UTC()

	data, err := uc.renderer.Render(asset, result, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	reportName := reportFilename(generatedAt, requestID)
	path, err := uc.reports.SaveReport(ctx, reportName, data)
	if err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	return &domain.Report{
		RequestID: requestID,
		Filename:  reportName,
		Path:      path,
		Result:    result,
		CreatedAt: generatedAt,
	}, nil
}

// reportFilename combines a second-resolution timestamp with a request
// id fragment so concurrent requests never collide on disk.
func reportFilename(ts time.Time, requestID string) string {
	suffix := requestID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("Skin_Report_%s_%s.pdf", ts.Format("20060102_150405"), suffix)
}
