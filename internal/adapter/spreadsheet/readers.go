package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readXLSX returns every row of the chosen worksheet. excelize reports blank
// rows as empty slices, so row positions match the physical sheet.
func readXLSX(path, sheetName string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	name := sheets[0]
	if sheetName != "" {
		if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
			return "", nil, fmt.Errorf("sheet %q not found in %s (have %s)", sheetName, path, strings.Join(sheets, ", "))
		}
		name = sheetName
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return name, rows, nil
}

// readXLS reads a legacy BIFF workbook. Rows the file does not store come
// back as nil so row positions still match the physical sheet.
func readXLS(path, sheetName string) (string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil {
		return "", nil, fmt.Errorf("open workbook: %s has no Workbook stream", path)
	}

	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		if sheetName == "" || strings.TrimSpace(s.Name) == sheetName {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return "", nil, fmt.Errorf("sheet %q not found in %s", sheetName, path)
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		// Cells left of FirstCol stay empty; Col returns "" for them.
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}
	return sheet.Name, grid, nil
}

// xlsRow returns row i, or nil when the sheet stores nothing for it.
// WorkSheet.Row dereferences the missing row instead of returning nil.
func xlsRow(s *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return s.Row(i)
}

func readCSV(path string) (string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("read csv: %w", err)
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), rows, nil
}
