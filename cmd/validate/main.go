// Command validate performs data integrity checks on the Kyoto full-flowering
// spreadsheet before it is analyzed: year range and ordering, the number of
// usable records, sentinel normalization, agreement between the packed MMDD
// date and the DOY ordinal, and the presence of poetry-sourced rows.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -in KyotoFullFlower7.xls \
//	  -expect 827
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/cherry-blossom-eda/internal/adapter/spreadsheet"
	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

// rawRows is how many undecoded rows are shown around the header.
const rawRows = 5

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	in := flag.String("in", "KyotoFullFlower7.xls", "path to the spreadsheet")
	skip := flag.Int("skip", spreadsheet.DefaultOptions().SkipRows, "preamble rows before the header")
	sheet := flag.String("sheet", "", "worksheet name (default: first sheet)")
	na := flag.String("na", "-", "comma-separated missing-value sentinels")
	expect := flag.Int("expect", 827, "expected number of records with a DOY (0 disables the check)")
	poetry := flag.Int("poetry-code", domain.DataTypePoetry, "data type code of poetry-sourced rows")
	flag.Parse()

	opts := spreadsheet.Options{SkipRows: *skip, SheetName: *sheet, NAValues: strings.Split(*na, ",")}
	os.Exit(run(*in, opts, *expect, *poetry))
}

func run(path string, opts spreadsheet.Options, expect, poetryCode int) int {
	fmt.Println("=== Kyoto Full-Flowering Integrity Validation ===")
	fmt.Println()

	records, sheet, err := spreadsheet.Load(path, opts)
	if err != nil {
		if sheet != nil {
			fmt.Fprintf(os.Stderr, "header found after skipping %d rows: %q\n", opts.SkipRows, sheet.Header)
			for _, row := range sheet.Head(rawRows) {
				fmt.Fprintf(os.Stderr, "  %q\n", row)
			}
		}
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", path, err)
		return 1
	}
	filtered := domain.FilterObserved(records)

	phases := []*phase{
		validateYears(records),
		validateCount(records, filtered, expect),
		validateSentinels(records, opts.NAValues),
		validateDates(filtered),
		validatePoetry(filtered, poetryCode),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d loaded from sheet %q, %d with DOY, %d without\n",
		len(records), sheet.Name, len(filtered), len(records)-len(filtered))
	printRows("First rows", sheet.Head(rawRows))
	printRows("Last rows", sheet.Tail(rawRows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Year range ──
// Every year lies in [801, current year] and appears once, in ascending order.

func validateYears(records []domain.FlowerRecord) *phase {
	p := &phase{name: "Phase 1: Year range and ordering"}

	if err := domain.CheckYears(records); err != nil {
		p.errorf("%v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Year <= records[i-1].Year {
			p.errorf("record %d: year %d does not follow %d", i, records[i].Year, records[i-1].Year)
		}
	}
	return p
}

// ── Phase 2: Filtered count ──

func validateCount(records, filtered []domain.FlowerRecord, expect int) *phase {
	p := &phase{name: "Phase 2: Records with DOY"}

	if got, want := len(filtered), len(records)-domain.CountMissingDOY(records); got != want {
		p.errorf("filter kept %d records, want total-missing = %d", got, want)
	}
	if expect > 0 && len(filtered) != expect {
		p.errorf("expected %d records with DOY, got %d", expect, len(filtered))
	}
	return p
}

// ── Phase 3: Sentinel normalization ──
// No decoded value may still equal a sentinel, and no placeholder-looking
// value may dominate the reference-name counts.

func validateSentinels(records []domain.FlowerRecord, naValues []string) *phase {
	p := &phase{name: "Phase 3: Sentinel normalization"}

	na := map[string]bool{}
	for _, v := range naValues {
		na[strings.TrimSpace(v)] = true
	}
	for i, r := range records {
		if r.ReferenceName != nil && na[*r.ReferenceName] {
			p.errorf("record %d (year %d): reference name %q is a sentinel", i, r.Year, *r.ReferenceName)
		}
	}

	counts := domain.ValueCounts(records, domain.ReferenceNameKey)
	if len(counts) > 0 && !hasLetter(counts[0].Value) {
		p.errorf("most frequent reference name is %q (%d rows); is it an unlisted sentinel?", counts[0].Value, counts[0].Count)
	}
	return p
}

func hasLetter(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 0x7f {
			return true
		}
	}
	return false
}

// ── Phase 4: Date consistency ──
// The packed MMDD date must decompose and agree with the DOY ordinal to within
// one day (the ordinals were computed across calendar changes).

func validateDates(filtered []domain.FlowerRecord) *phase {
	p := &phase{name: "Phase 4: Encoded date vs DOY"}

	for _, r := range filtered {
		if r.FloweringDate == nil {
			p.errorf("year %d: DOY %d has no encoded date", r.Year, *r.FloweringDOY)
			continue
		}
		doy, ok := domain.EncodedDOY(r.Year, *r.FloweringDate)
		if !ok {
			p.errorf("year %d: encoded date %d does not decompose", r.Year, *r.FloweringDate)
			continue
		}
		if diff := doy - *r.FloweringDOY; diff < -1 || diff > 1 {
			p.errorf("year %d: encoded date %d is DOY %d, column says %d", r.Year, *r.FloweringDate, doy, *r.FloweringDOY)
		}
	}
	return p
}

// ── Phase 5: Poetry rows ──

func validatePoetry(filtered []domain.FlowerRecord, code int) *phase {
	p := &phase{name: "Phase 5: Poetry-sourced rows"}

	rows := domain.FilterByDataType(filtered, code)
	if len(rows) == 0 {
		p.errorf("no records with data type code %d", code)
	}
	fmt.Printf("  %d records with data type code %d\n", len(rows), code)
	return p
}

func printRows(title string, rows [][]string) {
	fmt.Printf("\n%s:\n", title)
	for _, row := range rows {
		fmt.Printf("  %s\n", strings.Join(row, " | "))
	}
}
