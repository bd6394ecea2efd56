package domain

import "time"

// referenceYear is the calendar year used to validate and name packed MMDD dates.
// 1900 is not a leap year, so 229 never decomposes.
const referenceYear = 1900

// DateParts is the decomposition of a packed MMDD flowering date.
type DateParts struct {
	Month      time.Month
	Day        int
	MonthName  string // "April"
	DayOfMonth string // zero-padded, "02"
	Date       string // "April 2"
	Weekday    string // abbreviated weekday in the reference year, "Mon"
}

// DecomposeDate splits a packed MMDD value into month and day fields.
// Returns false when the pair is not a real day (e.g. 999, 431, 229).
func DecomposeDate(encoded int) (DateParts, bool) {
	if encoded <= 0 {
		return DateParts{}, false
	}
	month, day := encoded/100, encoded%100
	if month < 1 || month > 12 || day < 1 {
		return DateParts{}, false
	}

	t := time.Date(referenceYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (April 31 -> May 1); reject anything that moved.
	if t.Month() != time.Month(month) || t.Day() != day {
		return DateParts{}, false
	}

	return DateParts{
		Month:      t.Month(),
		Day:        t.Day(),
		MonthName:  t.Format("January"),
		DayOfMonth: t.Format("02"),
		Date:       t.Format("January 2"),
		Weekday:    t.Format("Mon"),
	}, true
}

// ComposeDate packs a month and day back into the MMDD encoding.
func ComposeDate(month time.Month, day int) int {
	return int(month)*100 + day
}

// EncodedDOY returns the day-of-year of a packed MMDD date in the given year,
// using the proleptic Gregorian calendar.
func EncodedDOY(year, encoded int) (int, bool) {
	parts, ok := DecomposeDate(encoded)
	if !ok {
		// Feb 29 is invalid in the reference year but real in leap years.
		if encoded != 229 || !isLeap(year) {
			return 0, false
		}
		parts = DateParts{Month: time.February, Day: 29}
	}
	return time.Date(year, parts.Month, parts.Day, 0, 0, 0, 0, time.UTC).YearDay(), true
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// ApplyDates fills Month, DayOfMonth, Date and Weekday on each record and
// returns the number of records whose packed date is missing or does not decompose.
func ApplyDates(records []FlowerRecord) int {
	failed := 0
	for i := range records {
		r := &records[i]
		r.Month, r.DayOfMonth, r.Date, r.Weekday = nil, nil, nil, nil
		if r.FloweringDate == nil {
			failed++
			continue
		}
		parts, ok := DecomposeDate(*r.FloweringDate)
		if !ok {
			failed++
			continue
		}
		r.Month = StringPtr(parts.MonthName)
		r.DayOfMonth = StringPtr(parts.DayOfMonth)
		r.Date = StringPtr(parts.Date)
		r.Weekday = StringPtr(parts.Weekday)
	}
	return failed
}
