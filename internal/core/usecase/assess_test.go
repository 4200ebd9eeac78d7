package usecase

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

type intakeFake struct {
	err      error
	cleanups int
}

func (f *intakeFake) Prepare(_ context.Context, _ string, _ io.Reader) (*domain.ImageAsset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewImageAsset([]byte("jpeg-bytes"), "image/jpeg", 2, 2, "/tmp/fake.jpg", func() error {
		f.cleanups++
		return nil
	}), nil
}

type analyzerFake struct {
	result domain.AssessmentResult
	err    error
}

func (f *analyzerFake) Analyze(context.Context, *domain.ImageAsset) (domain.AssessmentResult, error) {
	if f.err != nil {
		return domain.AssessmentResult{}, f.err
	}
	return f.result, nil
}

type rendererFake struct {
	err   error
	calls int
}

func (f *rendererFake) Render(*domain.ImageAsset, domain.AssessmentResult, time.Time) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	return []byte("%PDF-fake"), nil
}

type reportStoreFake struct {
	savedName string
	savedData []byte
	calls     int
	err       error
}

func (f *reportStoreFake) SaveReport(_ context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	f.savedName = filename
	f.savedData = data
	return "/reports/" + filename, nil
}

var reportNamePattern = regexp.MustCompile(`^Skin_Report_\d{8}_\d{6}_[0-9a-f]{8}\.pdf$`)

func TestAssessSuccess(t *testing.T) {
	intake := &intakeFake{}
	analyzer := &analyzerFake{result: domain.AssessmentResult{
		Risk:        domain.RiskLow,
		Explanation: "benign looking mole",
		Recognized:  true,
	}}
	store := &reportStoreFake{}
	uc := NewAssessLesionUseCase(intake, analyzer, &rendererFake{}, store)

	report, err := uc.Assess(context.Background(), "mole.jpg", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if report.Result.Risk != domain.RiskLow {
		t.Fatalf("expected low risk, got %s", report.Result.Risk)
	}
	if !reportNamePattern.MatchString(report.Filename) {
		t.Fatalf("unexpected report filename: %s", report.Filename)
	}
	if report.Path != "/reports/"+report.Filename {
		t.Fatalf("unexpected report path: %s", report.Path)
	}
	if store.calls != 1 {
		t.Fatalf("expected one report save, got %d", store.calls)
	}
	if intake.cleanups != 1 {
		t.Fatalf("expected temp file release, got %d cleanups", intake.cleanups)
	}
}

func TestAssessIntakeFailureTagsStage(t *testing.T) {
	intake := &intakeFake{err: domain.WrapError(domain.ErrInvalidImage, "decode image", errors.New("not a jpeg"))}
	store := &reportStoreFake{}
	uc := NewAssessLesionUseCase(intake, &analyzerFake{}, &rendererFake{}, store)

	_, err := uc.Assess(context.Background(), "notes.txt", strings.NewReader("plain text"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if stage, _ := domain.StageOf(err); stage != domain.StageIntake {
		t.Fatalf("expected intake stage, got %s", stage)
	}
	if store.calls != 0 {
		t.Fatalf("expected no report writes, got %d", store.calls)
	}
}

func TestAssessAnalyzerFailureWritesNothing(t *testing.T) {
	intake := &intakeFake{}
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrAPIUnavailable, "chat completion", errors.New("timeout"))}
	renderer := &rendererFake{}
	store := &reportStoreFake{}
	uc := NewAssessLesionUseCase(intake, analyzer, renderer, store)

	_, err := uc.Assess(context.Background(), "mole.jpg", strings.NewReader("raw"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrAPIUnavailable) {
		t.Fatalf("expected ErrAPIUnavailable, got %v", err)
	}
	if stage, _ := domain.StageOf(err); stage != domain.StageAnalyzer {
		t.Fatalf("expected analyzer stage, got %s", stage)
	}
	if renderer.calls != 0 || store.calls != 0 {
		t.Fatalf("expected no render or save, got %d/%d", renderer.calls, store.calls)
	}
	if intake.cleanups != 1 {
		t.Fatalf("expected temp file release on failure, got %d cleanups", intake.cleanups)
	}
}

func TestAssessUnrecognizedReplyStillProducesReport(t *testing.T) {
	intake := &intakeFake{}
	analyzer := &analyzerFake{result: domain.AssessmentResult{
		Risk:        domain.RiskUnknown,
		Explanation: "the model rambled without a verdict",
		Recognized:  false,
	}}
	store := &reportStoreFake{}
	uc := NewAssessLesionUseCase(intake, analyzer, &rendererFake{}, store)

	report, err := uc.Assess(context.Background(), "mole.jpg", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if report.Result.Risk != domain.RiskUnknown {
		t.Fatalf("expected unknown risk, got %s", report.Result.Risk)
	}
	if store.calls != 1 {
		t.Fatalf("expected report despite unrecognized reply, got %d saves", store.calls)
	}
}

func TestAssessRenderFailureTagsReportStage(t *testing.T) {
	intake := &intakeFake{}
	renderer := &rendererFake{err: domain.WrapError(domain.ErrRender, "render pdf", errors.New("bad image"))}
	store := &reportStoreFake{}
	uc := NewAssessLesionUseCase(intake, &analyzerFake{result: domain.AssessmentResult{Risk: domain.RiskLow, Recognized: true}}, renderer, store)

	_, err := uc.Assess(context.Background(), "mole.jpg", strings.NewReader("raw"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	if stage, _ := domain.StageOf(err); stage != domain.StageReport {
		t.Fatalf("expected report stage, got %s", stage)
	}
	if store.calls != 0 {
		t.Fatalf("expected no report writes after render failure, got %d", store.calls)
	}
	if intake.cleanups != 1 {
		t.Fatalf("expected temp file release, got %d cleanups", intake.cleanups)
	}
}
