package spreadsheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat reports a file extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrMissingColumn reports a required column absent from the header row.
	ErrMissingColumn = errors.New("missing column")

	// ErrNoHeader reports a sheet with nothing left after the preamble.
	ErrNoHeader = errors.New("no header row after preamble")
)

// Options controls how a sheet is read.
type Options struct {
	// SkipRows is the number of preamble rows before the header row.
	SkipRows int
	// SheetName selects a worksheet; empty means the first one.
	SheetName string
	// NAValues are cell values treated as missing, in addition to blank cells.
	NAValues []string
}

// DefaultOptions matches the published Kyoto workbook layout.
func DefaultOptions() Options {
	return Options{SkipRows: 25, NAValues: []string{"-"}}
}

// Sheet is the raw grid below the preamble: one header row and the data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Head returns up to n leading data rows.
func (s *Sheet) Head(n int) [][]string {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[:max(n, 0)]
}

// Tail returns up to n trailing data rows.
func (s *Sheet) Tail(n int) [][]string {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[len(s.Rows)-max(n, 0):]
}

// ReadSheet reads the raw grid of a .xls, .xlsx or .csv file, dropping the
// preamble rows. It performs no schema checks.
func ReadSheet(path string, opts Options) (*Sheet, error) {
	var (
		name string
		grid [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		name, grid, err = readXLSX(path, opts.SheetName)
	case ".xls":
		name, grid, err = readXLS(path, opts.SheetName)
	case ".csv":
		name, grid, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return newSheet(name, grid, opts.SkipRows)
}

func newSheet(name string, grid [][]string, skip int) (*Sheet, error) {
	if skip < 0 {
		skip = 0
	}
	if len(grid) <= skip {
		return nil, fmt.Errorf("%w: sheet %q has %d rows, skipping %d", ErrNoHeader, name, len(grid), skip)
	}
	header := make([]string, len(grid[skip]))
	for i, h := range grid[skip] {
		header[i] = strings.TrimSpace(h)
	}
	return &Sheet{Name: name, Header: header, Rows: grid[skip+1:]}, nil
}
