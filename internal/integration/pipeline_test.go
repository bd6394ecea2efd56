//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/chart"
	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/console"
	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/spreadsheet"
	"github.com/couchcryptid/cherry-blossom-eda/internal/config"
	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
	"github.com/couchcryptid/cherry-blossom-eda/internal/observability"
	"github.com/couchcryptid/cherry-blossom-eda/internal/pipeline"
)

const preamble = 25

// writeKyotoWorkbook builds a workbook laid out like the published file:
// a preamble, the header row, then one row per year from 801. Every third
// year has no observation; year 1400 has an unparseable packed date; every
// tenth observed year is poetry-sourced.
func writeKyotoWorkbook(t *testing.T, lastYear int) (path string, observed int) {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	sheet := f.GetSheetName(0)

	for i := 1; i <= preamble; i++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", i), fmt.Sprintf("preamble %d", i)))
	}
	header := []any{"AD", "Full-flowering date (DOY)", "Full-flowering date", "Source code", "Data type code", "Reference Name"}
	require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", preamble+1), &header))

	row := preamble + 2
	for year := domain.FirstRecordYear; year <= lastYear; year++ {
		var cells []any
		if year%3 == 0 {
			cells = []any{year, nil, nil, nil, nil, "-"}
		} else {
			doy := 90 + year%15
			encoded := 400 + doy - 90 // DOY 91 is April 1
			if doy == 90 {
				encoded = 331
			}
			if year == 1400 {
				encoded = 999
			}
			dataType := 2
			if observed%10 == 0 {
				dataType = domain.DataTypePoetry
			}
			cells = []any{year, doy, encoded, 1, dataType, fmt.Sprintf("REF %d", year%7)}
			observed++
		}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells))
		row++
	}

	path = filepath.Join(t.TempDir(), "KyotoFullFlower7.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path, observed
}

func TestPipeline_EndToEnd(t *testing.T) {
	input, observed := writeKyotoWorkbook(t, 2021)
	outDir := filepath.Join(t.TempDir(), "charts")
	metricsFile := filepath.Join(t.TempDir(), "blossom.prom")

	t.Setenv("INPUT_PATH", input)
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("METRICS_FILE", metricsFile)
	t.Setenv("CHART_FORMAT", "svg")

	cfg, err := config.Load()
	require.NoError(t, err)

	logger := slog.Default()
	metrics := observability.NewMetricsForTesting()

	opts := chart.DefaultOptions()
	opts.Dir = cfg.OutputDir
	opts.Format = cfg.ChartFormat
	opts.HistBins = cfg.HistBins

	var report bytes.Buffer
	p := pipeline.New(
		spreadsheet.NewReader(cfg.InputPath, cfg.Spreadsheet(), logger),
		pipeline.NewAnalyzer(cfg.Analysis(), logger, metrics),
		[]pipeline.Sink{
			console.NewReporter(&report, cfg.HeadRows),
			chart.NewRenderer(opts, logger, metrics),
		},
		logger, metrics,
	)

	a, err := p.Run(context.Background())
	require.NoError(t, err)

	total := 2021 - domain.FirstRecordYear + 1
	assert.Equal(t, total, a.Total)
	assert.Len(t, a.Records, observed)
	assert.Equal(t, total-observed, a.MissingDOY)
	assert.Equal(t, 1, a.DateParseFailures)
	assert.NotEmpty(t, a.Poetry)
	assert.NotNil(t, a.MeanBefore)
	assert.NotNil(t, a.MeanAfter)

	for _, r := range a.Records {
		assert.NotEqual(t, "-", stringOrEmpty(r.ReferenceName))
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
	assert.InDelta(t, 6, testutil.ToFloat64(metrics.ChartsRendered), 0)

	assert.Contains(t, report.String(), "== Rolling mean preview (window 10, min 5, by years) ==")
	assert.Contains(t, report.String(), "== Rolling mean (window 20, min 5, by years) ==")

	require.NoError(t, metrics.WriteTextfile(cfg.MetricsFile))
	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("blossom_records_loaded_total %d", total))
}

func TestPipeline_WrongSkipFails(t *testing.T) {
	input, _ := writeKyotoWorkbook(t, 900)
	t.Setenv("INPUT_PATH", input)
	t.Setenv("SKIP_ROWS", "20")

	cfg, err := config.Load()
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(
		spreadsheet.NewReader(cfg.InputPath, cfg.Spreadsheet(), slog.Default()),
		pipeline.NewAnalyzer(cfg.Analysis(), slog.Default(), metrics),
		nil, slog.Default(), metrics,
	)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, spreadsheet.ErrMissingColumn)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
