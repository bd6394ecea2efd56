// Command genfixture converts the Kyoto full-flowering spreadsheet into a CSV
// fixture of the decoded records and prints the statistics that the test
// assertions are written against. It uses the loader and domain packages so
// the fixture matches what the pipeline actually sees.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -in KyotoFullFlower7.xls \
//	  -out testdata/kyoto_fixture.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/spreadsheet"
	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

var fixtureHeader = []string{
	"AD",
	"Full-flowering date (DOY)",
	"Full-flowering date",
	"Source code",
	"Data type code",
	"Reference Name",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to the source spreadsheet (.xls, .xlsx or .csv)")
	out := flag.String("out", "", "output path for the CSV fixture")
	skip := flag.Int("skip", spreadsheet.DefaultOptions().SkipRows, "preamble rows before the header")
	sheet := flag.String("sheet", "", "worksheet name (default: first sheet)")
	na := flag.String("na", "-", "comma-separated missing-value sentinels")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	opts := spreadsheet.Options{SkipRows: *skip, SheetName: *sheet, NAValues: strings.Split(*na, ",")}
	records, src, err := spreadsheet.Load(*in, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", *in, err)
	}
	log.Printf("%s (sheet %q): %d records", *in, src.Name, len(records))

	if err := writeFixture(*out, records); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (load it with SKIP_ROWS=0)", *out)

	return printStats(records)
}

func writeFixture(path string, records []domain.FlowerRecord) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return writeRows(f, records)
}

// writeRows writes the fixture header and one CSV row per record.
func writeRows(out io.Writer, records []domain.FlowerRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(fixtureHeader); err != nil {
		return err
	}
	for _, r := range records {
		ref := ""
		if r.ReferenceName != nil {
			ref = *r.ReferenceName
		}
		row := []string{
			strconv.Itoa(r.Year),
			domain.FormatIntPtr(r.FloweringDOY),
			domain.FormatIntPtr(r.FloweringDate),
			domain.FormatIntPtr(r.SourceCode),
			domain.FormatIntPtr(r.DataTypeCode),
			ref,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printStats(records []domain.FlowerRecord) error {
	a, err := domain.Analyze(records, domain.DefaultAnalysisOptions())
	if err != nil {
		return err
	}

	fmt.Println("\n=== Fixture Statistics ===")
	fmt.Printf("Total records:      %d\n", a.Total)
	fmt.Printf("Missing DOY:        %d\n", a.MissingDOY)
	fmt.Printf("With DOY:           %d\n", len(a.Records))
	fmt.Printf("Unparsed dates:     %d\n", a.DateParseFailures)
	fmt.Printf("Rolling missing:    %d\n", a.RollingMissing)
	fmt.Printf("Poetry (code %d):    %d\n", a.PoetryCode, len(a.Poetry))
	if len(records) > 0 {
		fmt.Printf("Years:              %d..%d\n", records[0].Year, records[len(records)-1].Year)
	}

	fmt.Println("\nDOY summary:")
	fmt.Printf("  count=%d mean=%.2f std=%.2f min=%.0f q25=%.0f median=%.0f q75=%.0f max=%.0f\n",
		a.DOY.Count, a.DOY.Mean, a.DOY.Std, a.DOY.Min, a.DOY.Q25, a.DOY.Median, a.DOY.Q75, a.DOY.Max)

	if a.MeanBefore != nil && a.MeanAfter != nil {
		fmt.Printf("\nMean DOY before %d: %.2f, after: %.2f\n", a.EraSplitYear, *a.MeanBefore, *a.MeanAfter)
	}

	fmt.Println("\nBy month:")
	for _, c := range a.MonthCounts {
		fmt.Printf("  %-10s %d\n", c.Value, c.Count)
	}
	fmt.Println("\nBy data type code:")
	for _, c := range a.DataTypeCounts {
		fmt.Printf("  %-10s %d\n", c.Value, c.Count)
	}
	return nil
}
