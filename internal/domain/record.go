package domain

import (
	"errors"
	"strconv"
)

// FirstRecordYear is the earliest year in the Kyoto series.
const FirstRecordYear = 801

// DataTypePoetry is the data type code for dates taken from titles in Japanese poetry.
const DataTypePoetry = 4

var (
	// ErrYearOutOfRange reports a loaded year outside [FirstRecordYear, current year],
	// which almost always means the preamble skip count is wrong.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrInvalidWindow reports rolling options that violate 1 <= MinPeriods <= Window.
	ErrInvalidWindow = errors.New("invalid rolling window")
)

// FlowerRecord is one row of the full-flowering series plus its derived columns.
// Nil pointers mean "missing".
type FlowerRecord struct {
	Year          int     `json:"year"`
	ReferenceName *string `json:"reference_name,omitempty"`
	FloweringDate *int    `json:"flowering_date,omitempty"` // MMDD, e.g. 402
	FloweringDOY  *int    `json:"flowering_doy,omitempty"`
	SourceCode    *int    `json:"source_code,omitempty"`
	DataTypeCode  *int    `json:"data_type_code,omitempty"`

	// Derived columns, set only on records that survive FilterObserved.
	Month       *string  `json:"month,omitempty"`
	DayOfMonth  *string  `json:"day_of_month,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Weekday     *string  `json:"weekday,omitempty"`
	RollingMean *float64 `json:"rolling_mean,omitempty"`
}

// DOY returns the day-of-year ordinal and whether it is present.
func (r FlowerRecord) DOY() (int, bool) {
	if r.FloweringDOY == nil {
		return 0, false
	}
	return *r.FloweringDOY, true
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FormatIntPtr renders an optional integer column, e.g. 402 -> "402" and nil -> "".
func FormatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
