package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

// Header names, compared after lowercasing and collapsing whitespace.
const (
	colYear      = "ad"
	colDOY       = "full-flowering date (doy)"
	colEncoded   = "full-flowering date"
	colSource    = "source code"
	colDataType  = "data type code"
	colReference = "reference name"
)

var requiredColumns = []string{colYear, colDOY, colEncoded}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// Decode maps a raw sheet onto FlowerRecords. Required columns are AD and both
// flowering-date columns; a missing one means the preamble skip count is wrong,
// and the error lists the header that was actually found. Blank rows are
// skipped. Cells that are blank or equal to one of naValues become nil; other
// unparseable numeric cells also become nil, except the year, which is an error.
func Decode(sheet *Sheet, naValues []string) ([]domain.FlowerRecord, error) {
	idx := make(map[string]int, len(sheet.Header))
	for i, h := range sheet.Header {
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup && key != "" {
			idx[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q (header was %q)", ErrMissingColumn, col, sheet.Header)
		}
	}

	na := make(map[string]bool, len(naValues))
	for _, v := range naValues {
		na[strings.TrimSpace(v)] = true
	}
	cell := func(row []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		if v == "" || na[v] {
			return "", false
		}
		return v, true
	}
	optInt := func(row []string, col string) *int {
		v, ok := cell(row, col)
		if !ok {
			return nil
		}
		n, err := parseInt(v)
		if err != nil {
			return nil
		}
		return &n
	}

	records := make([]domain.FlowerRecord, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if isBlank(row) {
			continue
		}
		yearStr, ok := cell(row, colYear)
		if !ok {
			return nil, fmt.Errorf("data row %d: missing %q", i+1, colYear)
		}
		year, err := parseInt(yearStr)
		if err != nil {
			return nil, fmt.Errorf("data row %d: parse year %q: %w", i+1, yearStr, err)
		}

		rec := domain.FlowerRecord{
			Year:          year,
			FloweringDate: optInt(row, colEncoded),
			FloweringDOY:  optInt(row, colDOY),
			SourceCode:    optInt(row, colSource),
			DataTypeCode:  optInt(row, colDataType),
		}
		if ref, ok := cell(row, colReference); ok {
			rec.ReferenceName = &ref
		}
		records = append(records, rec)
	}
	return records, nil
}

// Load reads and decodes a spreadsheet in one step.
func Load(path string, opts Options) ([]domain.FlowerRecord, *Sheet, error) {
	sheet, err := ReadSheet(path, opts)
	if err != nil {
		return nil, nil, err
	}
	records, err := Decode(sheet, opts.NAValues)
	if err != nil {
		return nil, sheet, fmt.Errorf("decode sheet %q: %w", sheet.Name, err)
	}
	return records, sheet, nil
}

// parseInt accepts integer text and integral float text ("801", "801.0").
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
