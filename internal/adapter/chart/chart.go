// Package chart renders the analysis charts to image files with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
	"github.com/couchcryptid/cherry-blossom-eda/internal/observability"
)

// Rolling-mean chart y-limits, in day-of-year.
const (
	rollingYMin = 80
	rollingYMax = 120
)

// Options configures a Renderer.
type Options struct {
	Dir      string
	Format   string // png, svg or pdf
	HistBins []int
	Width    vg.Length
	Height   vg.Length
}

// DefaultOptions writes PNGs to ./charts with the 10- and 39-bin histograms.
func DefaultOptions() Options {
	return Options{
		Dir:      "charts",
		Format:   "png",
		HistBins: []int{10, 39},
		Width:    8 * vg.Inch,
		Height:   5 * vg.Inch,
	}
}

// Renderer writes one file per chart. It implements pipeline.Sink.
type Renderer struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer. Zero width or height fall back to the defaults.
func NewRenderer(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Format == "" {
		opts.Format = def.Format
	}
	return &Renderer{opts: opts, logger: logger, metrics: metrics}
}

// Name identifies the sink in logs and metrics.
func (r *Renderer) Name() string { return "chart" }

// Publish renders every chart into the output directory.
func (r *Renderer) Publish(ctx context.Context, a *domain.Analysis) error {
	_, err := r.Render(ctx, a)
	return err
}

type chartFunc func(*domain.Analysis) (*plot.Plot, error)

// Render writes the charts and returns the paths written. Charts with no data
// to plot are skipped.
func (r *Renderer) Render(ctx context.Context, a *domain.Analysis) ([]string, error) {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	type job struct {
		name string
		fn   chartFunc
	}
	var jobs []job
	for _, bins := range r.opts.HistBins {
		jobs = append(jobs, job{fmt.Sprintf("encoded_date_hist_%d", bins), encodedHistogram(bins)})
	}
	jobs = append(jobs,
		job{"doy_by_row", doyLine},
		job{"rolling_mean", rollingLine},
		job{"month_counts", countBar("Full-flowering month", func(a *domain.Analysis) []domain.Count { return a.MonthCounts })},
		job{"weekday_counts", countBar("Full-flowering weekday", func(a *domain.Analysis) []domain.Count { return a.WeekdayCounts })},
	)

	var written []string
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		p, err := j.fn(a)
		if err != nil {
			return written, fmt.Errorf("build %s: %w", j.name, err)
		}
		if p == nil {
			r.logger.Debug("chart skipped, no data", "chart", j.name)
			continue
		}
		path := filepath.Join(r.opts.Dir, j.name+"."+r.opts.Format)
		if err := p.Save(r.opts.Width, r.opts.Height, path); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		r.metrics.ChartsRendered.Inc()
		written = append(written, path)
		r.logger.Debug("chart rendered", "chart", j.name, "path", path)
	}

	r.logger.Info("charts rendered", "dir", r.opts.Dir, "count", len(written))
	return written, nil
}

func encodedHistogram(bins int) chartFunc {
	return func(a *domain.Analysis) (*plot.Plot, error) {
		values := domain.EncodedValues(a.Records)
		if len(values) == 0 {
			return nil, nil
		}
		h, err := plotter.NewHist(plotter.Values(values), bins)
		if err != nil {
			return nil, err
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Full-flowering date (%d bins)", bins)
		p.X.Label.Text = "MMDD"
		p.Y.Label.Text = "Frequency"
		p.Add(h)
		return p, nil
	}
}

func doyLine(a *domain.Analysis) (*plot.Plot, error) {
	var pts plotter.XYs
	for i, rec := range a.Records {
		doy, ok := rec.DOY()
		if !ok {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: float64(doy)})
	}
	if len(pts) == 0 {
		return nil, nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = "Full-flowering day of year"
	p.X.Label.Text = "Row"
	p.Y.Label.Text = "DOY"
	p.Add(l)
	return p, nil
}

func rollingLine(a *domain.Analysis) (*plot.Plot, error) {
	years, means := a.RollingSeries()
	if len(years) == 0 {
		return nil, nil
	}
	pts := make(plotter.XYs, len(years))
	for i := range years {
		pts[i] = plotter.XY{X: years[i], Y: means[i]}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d-year rolling mean of full-flowering DOY", a.Rolling.Window)
	p.X.Label.Text = "Year (AD)"
	p.Y.Label.Text = "DOY"
	p.Add(l)
	p.Y.Min = rollingYMin
	p.Y.Max = rollingYMax
	return p, nil
}

func countBar(title string, counts func(*domain.Analysis) []domain.Count) chartFunc {
	return func(a *domain.Analysis) (*plot.Plot, error) {
		cs := counts(a)
		if len(cs) == 0 {
			return nil, nil
		}
		values := make(plotter.Values, len(cs))
		names := make([]string, len(cs))
		for i, c := range cs {
			values[i] = float64(c.Count)
			names[i] = c.Value
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, err
		}
		p := plot.New()
		p.Title.Text = title
		p.Y.Label.Text = "Records"
		p.Add(bars)
		p.NominalX(names...)
		return p, nil
	}
}
