package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

type statusCall struct {
	status domain.SubmissionStatus
	detail string
}

type processRepoFake struct {
	sub           *domain.Submission
	getErr        error
	processingErr error
	doneErr       error
	failErr       error
	statusCalls   []statusCall
	doneRisk      domain.RiskLevel
	doneReport    string
}

func (f *processRepoFake) Create(context.Context, *domain.Submission) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copySub := *f.sub
	return &copySub, nil
}

func (f *processRepoFake) MarkProcessing(context.Context, string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: domain.SubmissionProcessing})
	return f.processingErr
}

func (f *processRepoFake) MarkDone(_ context.Context, _ string, risk domain.RiskLevel, _ string, reportPath string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: domain.SubmissionDone})
	f.doneRisk = risk
	f.doneReport = reportPath
	return f.doneErr
}

func (f *processRepoFake) MarkFailed(_ context.Context, _ string, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: domain.SubmissionFailed, detail: errMessage})
	return f.failErr
}

func (f *processRepoFake) ListRecent(context.Context, int) ([]domain.Submission, error) {
	return nil, errors.New("not implemented")
}

type processStorageFake struct {
	body string
	err  error
}

func (f *processStorageFake) Save(context.Context, string, io.Reader) error {
	return errors.New("not implemented")
}

func (f *processStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func (f *processStorageFake) Remove(context.Context, string) error { return nil }

type assessorFake struct {
	report *domain.Report
	err    error
}

func (f *assessorFake) Assess(context.Context, string, io.Reader) (*domain.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func queuedSubmission() *domain.Submission {
	return &domain.Submission{
		ID:         "sub-1",
		Filename:   "mole.jpg",
		MimeType:   "image/jpeg",
		StorageKey: "sub-1_mole.jpg",
		Status:     domain.SubmissionQueued,
	}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &processRepoFake{sub: queuedSubmission()}
	assessor := &assessorFake{report: &domain.Report{
		Path: "/reports/Skin_Report_20260101_120000_abcd1234.pdf",
		Result: domain.AssessmentResult{
			Risk:        domain.RiskMedium,
			Explanation: "monitor the border",
			Recognized:  true,
		},
	}}
	uc := NewProcessSubmissionUseCase(repo, &processStorageFake{body: "jpeg-bytes"}, assessor)

	if err := uc.ProcessByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.SubmissionProcessing || repo.statusCalls[1].status != domain.SubmissionDone {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.doneRisk != domain.RiskMedium {
		t.Fatalf("expected recorded risk medium, got %s", repo.doneRisk)
	}
	if repo.doneReport == "" {
		t.Fatalf("expected recorded report path")
	}
}

func TestProcessByIDMarksFailedOnAssessError(t *testing.T) {
	repo := &processRepoFake{sub: queuedSubmission()}
	assessor := &assessorFake{err: domain.TagStage(domain.StageAnalyzer, domain.WrapError(domain.ErrAPIUnavailable, "chat completion", errors.New("timeout")))}
	uc := NewProcessSubmissionUseCase(repo, &processStorageFake{body: "jpeg-bytes"}, assessor)

	err := uc.ProcessByID(context.Background(), "sub-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrAPIUnavailable) {
		t.Fatalf("expected ErrAPIUnavailable, got %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.SubmissionFailed {
		t.Fatalf("expected processing + failed updates, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[1].detail, "analyzer stage") {
		t.Fatalf("expected stage in recorded error, got %q", repo.statusCalls[1].detail)
	}
}

func TestProcessByIDMarksFailedOnMissingObject(t *testing.T) {
	repo := &processRepoFake{sub: queuedSubmission()}
	uc := NewProcessSubmissionUseCase(repo, &processStorageFake{err: errors.New("no such file")}, &assessorFake{})

	err := uc.ProcessByID(context.Background(), "sub-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.SubmissionFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[1].detail, "open stored image") {
		t.Fatalf("expected open error detail, got %q", repo.statusCalls[1].detail)
	}
}

func TestProcessByIDStopsWhenProcessingMarkFails(t *testing.T) {
	repo := &processRepoFake{sub: queuedSubmission(), processingErr: errors.New("db down")}
	uc := NewProcessSubmissionUseCase(repo, &processStorageFake{body: "jpeg-bytes"}, &assessorFake{})

	err := uc.ProcessByID(context.Background(), "sub-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "set status=processing") {
		t.Fatalf("expected processing mark error, got %v", err)
	}
	if len(repo.statusCalls) != 1 {
		t.Fatalf("expected single status call, got %d", len(repo.statusCalls))
	}
}
