package domain

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Anchor selects how a rolling window is measured.
type Anchor string

const (
	// AnchorYears measures the window in calendar years: (year-W, year].
	AnchorYears Anchor = "years"
	// AnchorRows measures the window in rows: the current row and the W-1 before it.
	AnchorRows Anchor = "rows"
)

// ParseAnchor maps a config string to an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch Anchor(strings.ToLower(strings.TrimSpace(s))) {
	case AnchorYears:
		return AnchorYears, nil
	case AnchorRows:
		return AnchorRows, nil
	default:
		return "", fmt.Errorf("unknown rolling anchor %q (want %q or %q)", s, AnchorYears, AnchorRows)
	}
}

// RollingOptions configures RollingMean.
type RollingOptions struct {
	Window     int
	MinPeriods int
	Anchor     Anchor
}

// DefaultRollingOptions is the 20-year window accepting as few as 5 samples.
func DefaultRollingOptions() RollingOptions {
	return RollingOptions{Window: 20, MinPeriods: 5, Anchor: AnchorYears}
}

func (o RollingOptions) validate() error {
	if o.Window < 1 || o.MinPeriods < 1 || o.MinPeriods > o.Window {
		return fmt.Errorf("%w: window=%d min_periods=%d", ErrInvalidWindow, o.Window, o.MinPeriods)
	}
	switch o.Anchor {
	case AnchorYears, AnchorRows, "":
		return nil
	default:
		return fmt.Errorf("%w: anchor %q", ErrInvalidWindow, o.Anchor)
	}
}

// RollingMean computes the trailing mean of the DOY ordinal for each record,
// walking the records in year order. The result is index-aligned with records.
// Records without a DOY contribute nothing and receive a value only if their
// window holds enough other samples. A window with fewer than MinPeriods
// samples yields nil.
func RollingMean(records []FlowerRecord, opts RollingOptions) ([]*float64, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// Year order, stable so duplicate years keep their row order.
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].Year < records[order[b]].Year
	})

	out := make([]*float64, len(records))
	window := make([]float64, 0, opts.Window)
	start := 0

	for pos, idx := range order {
		switch opts.Anchor {
		case AnchorRows:
			if pos-start+1 > opts.Window {
				start = pos - opts.Window + 1
			}
		default:
			lowest := records[idx].Year - opts.Window
			for records[order[start]].Year <= lowest {
				start++
			}
		}

		window = window[:0]
		for _, j := range order[start : pos+1] {
			if doy, ok := records[j].DOY(); ok {
				window = append(window, float64(doy))
			}
		}
		if len(window) < opts.MinPeriods {
			continue
		}
		mean := stat.Mean(window, nil)
		out[idx] = &mean
	}
	return out, nil
}

// ApplyRollingMean stores RollingMean results on the records and returns
// how many records were left without a value.
func ApplyRollingMean(records []FlowerRecord, opts RollingOptions) (int, error) {
	means, err := RollingMean(records, opts)
	if err != nil {
		return 0, err
	}
	missing := 0
	for i := range records {
		records[i].RollingMean = means[i]
		if means[i] == nil {
			missing++
		}
	}
	return missing, nil
}
