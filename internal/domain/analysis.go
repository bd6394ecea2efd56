package domain

import (
	"fmt"
	"slices"
)

// AnalysisOptions configures Analyze.
type AnalysisOptions struct {
	Rolling RollingOptions
	// PreviewWindow is the window of a second, shorter rolling series that
	// shares MinPeriods and Anchor with Rolling. Zero skips it.
	PreviewWindow int
	EraSplitYear  int
	PoetryCode    int
}

// DefaultAnalysisOptions mirrors the classic walkthrough: 20-year window with
// at least 5 samples, a 10-year preview, eras split at 1900, poetry code 4.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Rolling:       DefaultRollingOptions(),
		PreviewWindow: 10,
		EraSplitYear:  1900,
		PoetryCode:    DataTypePoetry,
	}
}

func (o AnalysisOptions) preview() RollingOptions {
	return RollingOptions{Window: o.PreviewWindow, MinPeriods: o.Rolling.MinPeriods, Anchor: o.Rolling.Anchor}
}

// Analysis is the read-only result of one run over the series.
type Analysis struct {
	Total      int            `json:"total"`
	MissingDOY int            `json:"missing_doy"`
	Loaded     []FlowerRecord `json:"-"`       // as loaded, before the filter
	Records    []FlowerRecord `json:"records"` // filtered, with derived columns

	DOY Summary `json:"doy"`

	EraSplitYear int      `json:"era_split_year"`
	MeanBefore   *float64 `json:"mean_before,omitempty"`
	MeanAfter    *float64 `json:"mean_after,omitempty"`

	ReferenceCounts  []Count `json:"reference_counts"`
	MonthCounts      []Count `json:"month_counts"`
	WeekdayCounts    []Count `json:"weekday_counts"`
	DataTypeCounts   []Count `json:"data_type_counts"`
	SourceCodeCounts []Count `json:"source_code_counts"`

	PoetryCode int            `json:"poetry_code"`
	Poetry     []FlowerRecord `json:"poetry"`

	Rolling           RollingOptions `json:"rolling"`
	DateParseFailures int            `json:"date_parse_failures"`
	RollingMissing    int            `json:"rolling_missing"`

	// Preview is the shorter rolling series, index-aligned with Records.
	// Both are empty when the preview window is zero.
	Preview      RollingOptions `json:"preview"`
	PreviewMeans []*float64     `json:"preview_means,omitempty"`
}

// Analyze filters the loaded records, derives date and rolling-mean columns,
// and computes every aggregate. The input slice is not modified.
func Analyze(records []FlowerRecord, opts AnalysisOptions) (*Analysis, error) {
	filtered := FilterObserved(records)

	dateFailures := ApplyDates(filtered)
	rollingMissing, err := ApplyRollingMean(filtered, opts.Rolling)
	if err != nil {
		return nil, err
	}
	var preview []*float64
	if opts.PreviewWindow != 0 {
		if preview, err = RollingMean(filtered, opts.preview()); err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
	}

	a := &Analysis{
		Total:      len(records),
		MissingDOY: len(records) - len(filtered),
		Loaded:     slices.Clone(records),
		Records:    filtered,

		DOY: Describe(DOYValues(filtered)),

		EraSplitYear: opts.EraSplitYear,

		ReferenceCounts:  ValueCounts(filtered, ReferenceNameKey),
		MonthCounts:      ValueCounts(filtered, MonthKey),
		WeekdayCounts:    ValueCounts(filtered, WeekdayKey),
		DataTypeCounts:   ValueCounts(filtered, DataTypeKey),
		SourceCodeCounts: ValueCounts(filtered, SourceCodeKey),

		PoetryCode: opts.PoetryCode,
		Poetry:     FilterByDataType(filtered, opts.PoetryCode),

		Rolling:           opts.Rolling,
		DateParseFailures: dateFailures,
		RollingMissing:    rollingMissing,
	}
	if preview != nil {
		a.Preview = opts.preview()
		a.PreviewMeans = preview
	}

	if m, ok := MeanDOYBefore(filtered, opts.EraSplitYear); ok {
		a.MeanBefore = &m
	}
	if m, ok := MeanDOYAfter(filtered, opts.EraSplitYear); ok {
		a.MeanAfter = &m
	}
	return a, nil
}

// RollingSeries returns (year, mean) pairs for records with a rolling value.
func (a *Analysis) RollingSeries() (years, means []float64) {
	for _, r := range a.Records {
		if r.RollingMean == nil {
			continue
		}
		years = append(years, float64(r.Year))
		means = append(means, *r.RollingMean)
	}
	return years, means
}
