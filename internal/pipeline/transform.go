package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
	"github.com/couchcryptid/cherry-blossom-eda/internal/observability"
)

// SeriesAnalyzer implements Analyzer using the domain analysis functions and
// records the data-level failures as metrics.
type SeriesAnalyzer struct {
	opts    domain.AnalysisOptions
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAnalyzer creates a SeriesAnalyzer.
func NewAnalyzer(opts domain.AnalysisOptions, logger *slog.Logger, metrics *observability.Metrics) *SeriesAnalyzer {
	return &SeriesAnalyzer{opts: opts, logger: logger, metrics: metrics}
}

func (t *SeriesAnalyzer) Analyze(_ context.Context, records []domain.FlowerRecord) (*domain.Analysis, error) {
	a, err := domain.Analyze(records, t.opts)
	if err != nil {
		return nil, err
	}

	t.metrics.RecordsDropped.Add(float64(a.MissingDOY))
	t.metrics.DateParseFailures.Add(float64(a.DateParseFailures))
	t.metrics.RollingMissing.Add(float64(a.RollingMissing))

	if a.DateParseFailures > 0 {
		t.logger.Debug("encoded dates did not decompose", "count", a.DateParseFailures)
	}
	t.logger.Info("series analyzed",
		"total", a.Total,
		"missing_doy", a.MissingDOY,
		"filtered", len(a.Records),
		"rolling_missing", a.RollingMissing,
		"poetry", len(a.Poetry),
	)
	return a, nil
}
