package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReference = "NIHON KOKI"

func TestFilterObserved(t *testing.T) {
	// Three missing out of ten.
	records := make([]FlowerRecord, 0, 10)
	for i := 0; i < 10; i++ {
		r := FlowerRecord{Year: 801 + i}
		if i >= 3 {
			r.FloweringDOY = IntPtr(90 + i)
		}
		records = append(records, r)
	}

	filtered := FilterObserved(records)

	assert.Len(t, filtered, 7)
	assert.Equal(t, 3, CountMissingDOY(records))
	assert.Equal(t, len(records)-CountMissingDOY(records), len(filtered))
	for _, r := range filtered {
		assert.NotNil(t, r.FloweringDOY)
	}
	assert.Equal(t, 804, filtered[0].Year)
}

func TestFilterByDataType(t *testing.T) {
	records := []FlowerRecord{
		{Year: 812, DataTypeCode: IntPtr(DataTypePoetry)},
		{Year: 815, DataTypeCode: IntPtr(2)},
		{Year: 831},
		{Year: 851, DataTypeCode: IntPtr(DataTypePoetry)},
	}

	poetry := FilterByDataType(records, DataTypePoetry)

	require.Len(t, poetry, 2)
	assert.Equal(t, 812, poetry[0].Year)
	assert.Equal(t, 851, poetry[1].Year)
}

func TestCheckYears(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("in range", func(t *testing.T) {
		require.NoError(t, CheckYears(series(801, 100, 2026, 90)))
	})

	t.Run("before first record", func(t *testing.T) {
		err := CheckYears(series(801, 100, 25, 90))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrYearOutOfRange))
		assert.Contains(t, err.Error(), "record 1 has year 25")
	})

	t.Run("future year", func(t *testing.T) {
		err := CheckYears(series(2027, 90))
		assert.True(t, errors.Is(err, ErrYearOutOfRange))
	})
}

func TestValueCounts(t *testing.T) {
	records := []FlowerRecord{
		{ReferenceName: StringPtr(testReference)},
		{ReferenceName: StringPtr("KANKE BUNSOU")},
		{ReferenceName: StringPtr(testReference)},
		{},
		{ReferenceName: StringPtr("AMAKUSA")},
	}

	got := ValueCounts(records, ReferenceNameKey)

	want := []Count{
		{Value: testReference, Count: 2},
		{Value: "AMAKUSA", Count: 1},
		{Value: "KANKE BUNSOU", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value counts mismatch (-want +got):\n%s", diff)
	}
}

func TestValueCounts_UnnormalizedSentinelDominates(t *testing.T) {
	records := []FlowerRecord{
		{ReferenceName: StringPtr("-")},
		{ReferenceName: StringPtr("-")},
		{ReferenceName: StringPtr(testReference)},
	}

	got := ValueCounts(records, ReferenceNameKey)

	require.NotEmpty(t, got)
	assert.Equal(t, "-", got[0].Value)
}

func TestIntKeys(t *testing.T) {
	records := []FlowerRecord{
		{DataTypeCode: IntPtr(4), SourceCode: IntPtr(1)},
		{DataTypeCode: IntPtr(2), SourceCode: IntPtr(1)},
		{DataTypeCode: IntPtr(4)},
	}

	assert.Equal(t, []Count{{"4", 2}, {"2", 1}}, ValueCounts(records, DataTypeKey))
	assert.Equal(t, []Count{{"1", 2}}, ValueCounts(records, SourceCodeKey))
}

func TestMeanDOYByEra(t *testing.T) {
	records := series(1850, 95, 1950, 100)

	before, ok := MeanDOYBefore(records, 1900)
	require.True(t, ok)
	assert.InDelta(t, 95.0, before, 1e-9)

	after, ok := MeanDOYAfter(records, 1900)
	require.True(t, ok)
	assert.InDelta(t, 100.0, after, 1e-9)
}

func TestMeanDOYByEra_SplitYearExcluded(t *testing.T) {
	records := series(1900, 80)

	_, ok := MeanDOYBefore(records, 1900)
	assert.False(t, ok)
	_, ok = MeanDOYAfter(records, 1900)
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{5, 1, 4, 2, 3})

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q75)
	assert.Equal(t, 5.0, s.Max)
}

func TestDescribe_EdgeCases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Describe(nil)
		assert.Zero(t, s.Count)
		assert.True(t, math.IsNaN(s.Mean))
		assert.True(t, math.IsNaN(s.Max))
	})

	t.Run("single value", func(t *testing.T) {
		s := Describe([]float64{100})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 100.0, s.Mean)
		assert.True(t, math.IsNaN(s.Std))
		assert.Equal(t, 100.0, s.Median)
	})

	t.Run("input not reordered", func(t *testing.T) {
		in := []float64{3, 1, 2}
		Describe(in)
		assert.Equal(t, []float64{3, 1, 2}, in)
	})
}
