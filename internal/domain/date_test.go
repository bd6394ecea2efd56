package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeDate(t *testing.T) {
	tests := []struct {
		name       string
		encoded    int
		ok         bool
		month      string
		dayOfMonth string
		date       string
	}{
		{"april second", 402, true, "April", "02", "April 2"},
		{"april sixteenth", 416, true, "April", "16", "April 16"},
		{"late march", 327, true, "March", "27", "March 27"},
		{"early may", 504, true, "May", "04", "May 4"},
		{"january eleventh not november first", 111, true, "January", "11", "January 11"},
		{"invalid month", 999, false, "", "", ""},
		{"month thirteen", 1301, false, "", "", ""},
		{"day zero", 400, false, "", "", ""},
		{"april thirty-first", 431, false, "", "", ""},
		{"february twenty-ninth in reference year", 229, false, "", "", ""},
		{"zero", 0, false, "", "", ""},
		{"negative", -402, false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, ok := DecomposeDate(tt.encoded)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, DateParts{}, parts)
				return
			}
			assert.Equal(t, tt.month, parts.MonthName)
			assert.Equal(t, tt.dayOfMonth, parts.DayOfMonth)
			assert.Equal(t, tt.date, parts.Date)
		})
	}
}

func TestDecomposeDate_Weekday(t *testing.T) {
	// April 2, 1900 was a Monday.
	parts, ok := DecomposeDate(402)
	require.True(t, ok)
	assert.Equal(t, "Mon", parts.Weekday)
}

func TestDecomposeComposeRoundTrip(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		days := time.Date(referenceYear, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for day := 1; day <= days; day++ {
			encoded := ComposeDate(month, day)
			parts, ok := DecomposeDate(encoded)
			require.True(t, ok, "encoded %d", encoded)
			assert.Equal(t, month, parts.Month)
			assert.Equal(t, day, parts.Day)
			assert.Equal(t, encoded, ComposeDate(parts.Month, parts.Day))
		}
	}
}

func TestEncodedDOY(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		encoded int
		doy     int
		ok      bool
	}{
		{"non-leap april second", 1900, 402, 92, true},
		{"leap april second", 2000, 402, 93, true},
		{"leap day in leap year", 2004, 229, 60, true},
		{"leap day in common year", 2003, 229, 0, false},
		{"invalid", 2000, 999, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doy, ok := EncodedDOY(tt.year, tt.encoded)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.doy, doy)
		})
	}
}

func TestApplyDates(t *testing.T) {
	records := []FlowerRecord{
		{Year: 812, FloweringDate: IntPtr(401), FloweringDOY: IntPtr(92)},
		{Year: 815, FloweringDate: IntPtr(999), FloweringDOY: IntPtr(105)},
		{Year: 831, FloweringDOY: IntPtr(96)},
	}

	failed := ApplyDates(records)

	assert.Equal(t, 2, failed)
	require.NotNil(t, records[0].Date)
	assert.Equal(t, "April 1", *records[0].Date)
	assert.Equal(t, "April", *records[0].Month)
	assert.Equal(t, "01", *records[0].DayOfMonth)
	assert.NotNil(t, records[0].Weekday)

	for _, r := range records[1:] {
		assert.Nil(t, r.Month)
		assert.Nil(t, r.DayOfMonth)
		assert.Nil(t, r.Date)
		assert.Nil(t, r.Weekday)
	}
}

func TestFormatIntPtr(t *testing.T) {
	assert.Equal(t, "402", FormatIntPtr(IntPtr(402)))
	assert.Equal(t, "-4", FormatIntPtr(IntPtr(-4)))
	assert.Empty(t, FormatIntPtr(nil))
}
