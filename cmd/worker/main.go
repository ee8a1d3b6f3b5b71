package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/app-extractor/internal/bootstrap"
	"github.com/kirillkom/app-extractor/internal/config"
	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/core/ports"
	"github.com/kirillkom/app-extractor/internal/core/usecase"
	"github.com/kirillkom/app-extractor/internal/observability/logging"
	"github.com/kirillkom/app-extractor/internal/observability/metrics"
)

const serviceName = "extractor-worker"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	processUC := usecase.NewProcessExtractJobUseCase(
		meteredExtractor{next: app.ExtractUC, metrics: workerMetrics},
		app.Queue,
	)

	slog.Info("worker_subscribed", "subject", cfg.NATSRequestSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeExtractJobs(ctx, func(handlerCtx context.Context, job domain.ExtractJob) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.ExtractTimeout)
		defer cancel()
		return processUC.ProcessJob(processCtx, job)
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

// meteredExtractor records one worker job per extraction.
type meteredExtractor struct {
	next    ports.AppDocumentExtractor
	metrics *metrics.WorkerMetrics
}

func (m meteredExtractor) Extract(ctx context.Context, req domain.ExtractRequest) ([]domain.Document, error) {
	start := time.Now()
	m.metrics.StartJob()
	docs, err := m.next.Extract(ctx, req)
	m.metrics.FinishJob(serviceName, len(docs), time.Since(start), err)
	return docs, err
}

func loadConfig() (config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}
