package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/ekovalenko/skincheck/internal/config"
	"github.com/ekovalenko/skincheck/internal/core/ports"
	"github.com/ekovalenko/skincheck/internal/core/usecase"
	"github.com/ekovalenko/skincheck/internal/infrastructure/export/excel"
	"github.com/ekovalenko/skincheck/internal/infrastructure/imaging"
	"github.com/ekovalenko/skincheck/internal/infrastructure/llm/openai"
	"github.com/ekovalenko/skincheck/internal/infrastructure/queue/nats"
	"github.com/ekovalenko/skincheck/internal/infrastructure/report/pdf"
	"github.com/ekovalenko/skincheck/internal/infrastructure/repository/postgres"
	"github.com/ekovalenko/skincheck/internal/infrastructure/resilience"
	"github.com/ekovalenko/skincheck/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.SubmissionRepository
	AssessUC  ports.LesionAssessor
	SubmitUC  ports.SubmissionIngestor
	ProcessUC ports.SubmissionProcessor
	ExportUC  ports.HistoryExporter

	closeFn func()
}

// New wires the full submission pipeline: postgres, object storage,
// nats and the assessment stack on top of them.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewSubmissionRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	assessUC, err := newAssessUseCase(cfg)
	if err != nil {
		return nil, err
	}

	submitUC := usecase.NewSubmitAssessmentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessSubmissionUseCase(repo, storage, assessUC)
	exportUC := usecase.NewExportHistoryUseCase(repo, excel.NewExporter())

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		AssessUC:  assessUC,
		SubmitUC:  submitUC,
		ProcessUC: processUC,
		ExportUC:  exportUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// NewAssessor wires only the synchronous assessment path. The one-shot
// CLI mode needs neither postgres nor nats.
func NewAssessor(cfg config.Config) (ports.LesionAssessor, error) {
	return newAssessUseCase(cfg)
}

func newAssessUseCase(cfg config.Config) (*usecase.AssessLesionUseCase, error) {
	intake := imaging.New(cfg.TempDir, cfg.MaxImageBytes, cfg.MaxImageEdge, cfg.JPEGQuality)

	reports, err := localfs.NewReportStore(cfg.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("init report store: %w", err)
	}

	var executor *resilience.Executor
	if cfg.AnalyzerMaxAttempts > 1 || cfg.AnalyzerBreakerEnabled {
		executor = resilience.NewExecutor(resilience.Policy{
			RetryMaxAttempts: cfg.AnalyzerMaxAttempts,
			BreakerEnabled:   cfg.AnalyzerBreakerEnabled,
		})
	}

	analyzer := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIMaxTokens, openai.Options{
		BaseURL:      cfg.OpenAIBaseURL,
		Timeout:      time.Duration(cfg.AnalyzerTimeoutSeconds) * time.Second,
		RateLimitRPM: cfg.AnalyzerRateLimitRPM,
		Executor:     executor,
	})

	return usecase.NewAssessLesionUseCase(intake, analyzer, pdf.NewGenerator(), reports), nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
