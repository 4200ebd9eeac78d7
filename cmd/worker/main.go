package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ekovalenko/skincheck/internal/bootstrap"
	"github.com/ekovalenko/skincheck/internal/config"
	"github.com/ekovalenko/skincheck/internal/observability/logging"
	"github.com/ekovalenko/skincheck/internal/observability/metrics"
)

const serviceName = "skincheck-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:         ":" + cfg.WorkerMetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeSubmissionCreated(ctx, func(handlerCtx context.Context, submissionID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if sub, err := app.Repo.GetByID(processCtx, submissionID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(sub.CreatedAt))
		}

		workerMetrics.StartAssessment()
		start := time.Now()
		err := app.ProcessUC.ProcessByID(processCtx, submissionID)
		workerMetrics.FinishAssessment(serviceName, time.Since(start), err)
		if err != nil {
			return err
		}

		if sub, repoErr := app.Repo.GetByID(processCtx, submissionID); repoErr == nil {
			workerMetrics.RecordRisk(serviceName, string(sub.Risk))
		}
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics shutdown error", "error", err)
	}
}
