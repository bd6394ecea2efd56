package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
	"github.com/couchcryptid/cherry-blossom-eda/internal/observability"
)

// Extractor loads the full record series from the source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.FlowerRecord, error)
}

// Analyzer turns loaded records into an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, records []domain.FlowerRecord) (*domain.Analysis, error)
}

// Sink publishes a finished Analysis. Sinks only read the Analysis and run concurrently.
type Sink interface {
	Name() string
	Publish(ctx context.Context, a *domain.Analysis) error
}

// Pipeline runs extract, year check, analyze and publish once, in that order.
type Pipeline struct {
	extractor Extractor
	analyzer  Analyzer
	sinks     []Sink
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, a Analyzer, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		analyzer:  a,
		sinks:     sinks,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the pipeline. The returned Analysis is nil on error.
func (p *Pipeline) Run(ctx context.Context) (*domain.Analysis, error) {
	p.logger.Info("pipeline started", "sinks", len(p.sinks))

	a, err := p.run(ctx)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		p.logger.Error("pipeline failed", "error", err)
		return nil, err
	}
	p.metrics.LastRunSuccess.Set(1)
	p.logger.Info("pipeline finished", "records", len(a.Records))
	return a, nil
}

func (p *Pipeline) run(ctx context.Context) (*domain.Analysis, error) {
	var records []domain.FlowerRecord
	err := p.stage(ctx, "extract", func() error {
		var err error
		records, err = p.extractor.Extract(ctx)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		p.metrics.RecordsLoaded.Add(float64(len(records)))
		return domain.CheckYears(records)
	})
	if err != nil {
		return nil, err
	}

	var a *domain.Analysis
	err = p.stage(ctx, "analyze", func() error {
		var err error
		a, err = p.analyzer.Analyze(ctx, records)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := p.stage(ctx, "publish", func() error { return p.publish(ctx, a) }); err != nil {
		return nil, err
	}
	return a, nil
}

// stage checks for cancellation, then times fn under the given stage label.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	p.logger.Debug("stage done", "stage", name, "duration", time.Since(start), "ok", err == nil)
	return err
}

// publish fans the Analysis out to every sink. The first failure cancels the others.
func (p *Pipeline) publish(ctx context.Context, a *domain.Analysis) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range p.sinks {
		g.Go(func() error {
			if err := s.Publish(gctx, a); err != nil {
				p.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
				p.logger.Error("sink failed", "sink", s.Name(), "error", err)
				return fmt.Errorf("publish %s: %w", s.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
