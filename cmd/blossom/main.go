package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/chart"
	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/console"
	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/spreadsheet"
	"github.com/couchcryptid/cherry-blossom-eda/internal/config"
	"github.com/couchcryptid/cherry-blossom-eda/internal/observability"
	"github.com/couchcryptid/cherry-blossom-eda/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger, _ := observability.WithRunID(observability.NewLogger(cfg.LogLevel, cfg.LogFormat))
	metrics := observability.NewMetrics()

	reader := spreadsheet.NewReader(cfg.InputPath, cfg.Spreadsheet(), logger)
	analyzer := pipeline.NewAnalyzer(cfg.Analysis(), logger, metrics)

	sinks := []pipeline.Sink{console.NewReporter(os.Stdout, cfg.HeadRows)}
	if cfg.ChartsEnabled {
		opts := chart.DefaultOptions()
		opts.Dir = cfg.OutputDir
		opts.Format = cfg.ChartFormat
		opts.HistBins = cfg.HistBins
		sinks = append(sinks, chart.NewRenderer(opts, logger, metrics))
	} else {
		logger.Info("chart rendering disabled")
	}

	p := pipeline.New(reader, analyzer, sinks, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, runErr := p.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("write metrics file", "path", cfg.MetricsFile, "error", err)
		} else {
			logger.Debug("metrics written", "path", cfg.MetricsFile)
		}
	}

	if runErr != nil {
		return 1
	}
	logger.Info("run complete")
	return 0
}
