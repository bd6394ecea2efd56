package domain

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Count is one row of a value-frequency table.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// KeyFunc extracts a categorical value from a record; false means missing.
type KeyFunc func(FlowerRecord) (string, bool)

// ValueCounts tallies key values across records, skipping missing ones.
// Results are ordered by count descending, then value ascending.
func ValueCounts(records []FlowerRecord, key KeyFunc) []Count {
	tally := make(map[string]int)
	for _, r := range records {
		if v, ok := key(r); ok {
			tally[v]++
		}
	}
	out := make([]Count, 0, len(tally))
	for v, c := range tally {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func stringKey(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func intKey(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.Itoa(*p), true
}

// ReferenceNameKey groups records by reference name.
func ReferenceNameKey(r FlowerRecord) (string, bool) { return stringKey(r.ReferenceName) }

// MonthKey groups records by the month name derived from the packed date.
func MonthKey(r FlowerRecord) (string, bool) { return stringKey(r.Month) }

// WeekdayKey groups records by the weekday derived from the packed date.
func WeekdayKey(r FlowerRecord) (string, bool) { return stringKey(r.Weekday) }

// DataTypeKey groups records by data type code.
func DataTypeKey(r FlowerRecord) (string, bool) { return intKey(r.DataTypeCode) }

// SourceCodeKey groups records by source code.
func SourceCodeKey(r FlowerRecord) (string, bool) { return intKey(r.SourceCode) }

// DOYValues returns the DOY ordinals of the records that have one, in record order.
func DOYValues(records []FlowerRecord) []float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if doy, ok := r.DOY(); ok {
			vals = append(vals, float64(doy))
		}
	}
	return vals
}

// EncodedValues returns the packed MMDD dates of the records that have one.
func EncodedValues(records []FlowerRecord) []float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if r.FloweringDate != nil {
			vals = append(vals, float64(*r.FloweringDate))
		}
	}
	return vals
}

// MeanDOYWhere averages the DOY of records matching keep. ok is false when
// no record matches.
func MeanDOYWhere(records []FlowerRecord, keep func(FlowerRecord) bool) (mean float64, ok bool) {
	var vals []float64
	for _, r := range records {
		if !keep(r) {
			continue
		}
		if doy, has := r.DOY(); has {
			vals = append(vals, float64(doy))
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}

// MeanDOYBefore averages the DOY of records strictly before year.
func MeanDOYBefore(records []FlowerRecord, year int) (float64, bool) {
	return MeanDOYWhere(records, func(r FlowerRecord) bool { return r.Year < year })
}

// MeanDOYAfter averages the DOY of records strictly after year.
// Records in year itself belong to neither era.
func MeanDOYAfter(records []FlowerRecord, year int) (float64, bool) {
	return MeanDOYWhere(records, func(r FlowerRecord) bool { return r.Year > year })
}

// Summary is a count/mean/std/quartile description of a numeric column.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarizes values. Std is the sample standard deviation and is NaN
// for fewer than two values. Quartiles use the empirical CDF. An empty input
// yields a zero Count and NaN for every statistic.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	std := math.NaN()
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}

	return Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    std,
		Min:    floats.Min(sorted),
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
	}
}
