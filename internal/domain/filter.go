package domain

import "fmt"

// FilterObserved returns the records that carry a DOY ordinal, preserving order.
func FilterObserved(records []FlowerRecord) []FlowerRecord {
	out := make([]FlowerRecord, 0, len(records))
	for _, r := range records {
		if r.FloweringDOY != nil {
			out = append(out, r)
		}
	}
	return out
}

// CountMissingDOY returns how many records lack a DOY ordinal.
func CountMissingDOY(records []FlowerRecord) int {
	n := 0
	for _, r := range records {
		if r.FloweringDOY == nil {
			n++
		}
	}
	return n
}

// FilterByDataType returns the records with the given data type code.
func FilterByDataType(records []FlowerRecord, code int) []FlowerRecord {
	var out []FlowerRecord
	for _, r := range records {
		if r.DataTypeCode != nil && *r.DataTypeCode == code {
			out = append(out, r)
		}
	}
	return out
}

// CheckYears verifies every year lies in [FirstRecordYear, CurrentYear()].
// The returned error wraps ErrYearOutOfRange and names the first offending row.
func CheckYears(records []FlowerRecord) error {
	maxYear := CurrentYear()
	for i, r := range records {
		if r.Year < FirstRecordYear || r.Year > maxYear {
			return fmt.Errorf("%w: record %d has year %d, want [%d, %d]",
				ErrYearOutOfRange, i, r.Year, FirstRecordYear, maxYear)
		}
	}
	return nil
}
