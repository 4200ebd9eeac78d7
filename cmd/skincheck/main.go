package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ekovalenko/skincheck/internal/bootstrap"
	"github.com/ekovalenko/skincheck/internal/config"
	"github.com/ekovalenko/skincheck/internal/observability/logging"
)

func main() {
	imagePath := flag.String("image", "", "path to a lesion photo (jpeg or png)")
	enqueue := flag.Bool("enqueue", false, "queue the image for the worker instead of assessing inline")
	exportPath := flag.String("export", "", "write assessment history to this xlsx file and exit")
	limit := flag.Int("limit", 0, "maximum history rows to export (0 uses the default)")
	flag.Parse()

	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("skincheck-cli", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *exportPath != "":
		runExport(ctx, cfg, *exportPath, *limit)
	case *imagePath != "" && *enqueue:
		runEnqueue(ctx, cfg, *imagePath)
	case *imagePath != "":
		runAssess(ctx, cfg, *imagePath)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runAssess(ctx context.Context, cfg config.Config, imagePath string) {
	assessor, err := bootstrap.NewAssessor(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		log.Fatalf("open image: %v", err)
	}
	defer f.Close()

	report, err := assessor.Assess(ctx, filepath.Base(imagePath), f)
	if err != nil {
		log.Fatalf("assess error: %v", err)
	}

	slog.Info("assessment complete",
		"risk", string(report.Result.Risk),
		"recognized", report.Result.Recognized,
		"report", report.Path,
	)
	fmt.Println(report.Path)
}

func runEnqueue(ctx context.Context, cfg config.Config, imagePath string) {
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	f, err := os.Open(imagePath)
	if err != nil {
		log.Fatalf("open image: %v", err)
	}
	defer f.Close()

	sub, err := app.SubmitUC.Submit(ctx, filepath.Base(imagePath), mimeTypeFor(imagePath), f)
	if err != nil {
		log.Fatalf("submit error: %v", err)
	}

	slog.Info("submission queued", "submission_id", sub.ID, "subject", cfg.NATSSubject)
	fmt.Println(sub.ID)
}

func runExport(ctx context.Context, cfg config.Config, path string, limit int) {
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	count, err := app.ExportUC.Export(ctx, path, limit)
	if err != nil {
		log.Fatalf("export error: %v", err)
	}

	slog.Info("history exported", "rows", count, "path", path)
	fmt.Println(count)
}

func mimeTypeFor(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "application/octet-stream"
}
