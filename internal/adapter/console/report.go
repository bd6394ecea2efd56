// Package console prints the analysis as a plain-text report.
package console

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

// Reporter writes the text report. It implements pipeline.Sink.
type Reporter struct {
	w        io.Writer
	headRows int
}

// NewReporter creates a Reporter printing headRows records in each head/tail table.
func NewReporter(w io.Writer, headRows int) *Reporter {
	return &Reporter{w: w, headRows: headRows}
}

// Name identifies the sink in logs and metrics.
func (r *Reporter) Name() string { return "console" }

// Publish writes the full report.
func (r *Reporter) Publish(ctx context.Context, a *domain.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	sections := []func(io.Writer, *domain.Analysis){
		r.writeRecords,
		writeCounts,
		writeSummary,
		writeEras,
		r.writePoetry,
		writeFrequencies,
		r.writeRolling,
	}
	for _, s := range sections {
		s(tw, a)
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (r *Reporter) writeRecords(w io.Writer, a *domain.Analysis) {
	fmt.Fprintf(w, "== First %d loaded rows ==\n", min(r.headRows, len(a.Loaded)))
	writeLoadedTable(w, head(a.Loaded, r.headRows))
	fmt.Fprintf(w, "\n== Last %d loaded rows ==\n", min(r.headRows, len(a.Loaded)))
	writeLoadedTable(w, tail(a.Loaded, r.headRows))

	fmt.Fprintf(w, "\n== First %d records ==\n", min(r.headRows, len(a.Records)))
	writeTable(w, head(a.Records, r.headRows))
	fmt.Fprintf(w, "\n== Last %d records ==\n", min(r.headRows, len(a.Records)))
	writeTable(w, tail(a.Records, r.headRows))
}

func writeCounts(w io.Writer, a *domain.Analysis) {
	fmt.Fprintln(w, "== Record counts ==")
	fmt.Fprintf(w, "loaded\t%d\n", a.Total)
	fmt.Fprintf(w, "missing DOY\t%d\n", a.MissingDOY)
	fmt.Fprintf(w, "with DOY\t%d\n", len(a.Records))
	fmt.Fprintf(w, "unparsed dates\t%d\n", a.DateParseFailures)
}

func writeSummary(w io.Writer, a *domain.Analysis) {
	s := a.DOY
	fmt.Fprintln(w, "== Full-flowering DOY ==")
	fmt.Fprintf(w, "count\t%d\n", s.Count)
	for _, row := range []struct {
		name string
		v    float64
	}{
		{"mean", s.Mean},
		{"std", s.Std},
		{"min", s.Min},
		{"25%", s.Q25},
		{"50%", s.Median},
		{"75%", s.Q75},
		{"max", s.Max},
	} {
		fmt.Fprintf(w, "%s\t%s\n", row.name, formatFloat(row.v))
	}
}

func writeEras(w io.Writer, a *domain.Analysis) {
	fmt.Fprintln(w, "== Mean DOY by era ==")
	fmt.Fprintf(w, "before %d\t%s\n", a.EraSplitYear, formatFloatPtr(a.MeanBefore))
	fmt.Fprintf(w, "after %d\t%s\n", a.EraSplitYear, formatFloatPtr(a.MeanAfter))
}

func (r *Reporter) writePoetry(w io.Writer, a *domain.Analysis) {
	fmt.Fprintf(w, "== Data type %d (poetry): %d records ==\n", a.PoetryCode, len(a.Poetry))
	if len(a.Poetry) > 0 {
		writeTable(w, head(a.Poetry, r.headRows))
	}
}

func writeFrequencies(w io.Writer, a *domain.Analysis) {
	for _, t := range []struct {
		title  string
		counts []domain.Count
	}{
		{"Reference name", a.ReferenceCounts},
		{"Month", a.MonthCounts},
		{"Weekday", a.WeekdayCounts},
		{"Data type code", a.DataTypeCounts},
		{"Source code", a.SourceCodeCounts},
	} {
		fmt.Fprintf(w, "== %s counts ==\n", t.title)
		for _, c := range t.counts {
			fmt.Fprintf(w, "%s\t%d\n", c.Value, c.Count)
		}
		fmt.Fprintln(w)
	}
}

func (r *Reporter) writeRolling(w io.Writer, a *domain.Analysis) {
	if a.PreviewMeans != nil {
		fmt.Fprintf(w, "== Rolling mean preview (window %d, min %d, by %s) ==\n",
			a.Preview.Window, a.Preview.MinPeriods, anchorName(a.Preview.Anchor))
		fmt.Fprintln(w, "year\trolling")
		from := len(a.Records) - len(tail(a.Records, r.headRows))
		for i := from; i < len(a.Records); i++ {
			fmt.Fprintf(w, "%d\t%s\n", a.Records[i].Year, formatFloatPtr(a.PreviewMeans[i]))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "== Rolling mean (window %d, min %d, by %s) ==\n",
		a.Rolling.Window, a.Rolling.MinPeriods, anchorName(a.Rolling.Anchor))
	fmt.Fprintf(w, "missing\t%d\n", a.RollingMissing)
	fmt.Fprintln(w, "year\trolling")
	for _, rec := range tail(a.Records, r.headRows) {
		fmt.Fprintf(w, "%d\t%s\n", rec.Year, formatFloatPtr(rec.RollingMean))
	}
}

// writeLoadedTable prints the source columns only.
func writeLoadedTable(w io.Writer, records []domain.FlowerRecord) {
	fmt.Fprintln(w, "AD\tDOY\tdate\tsource\ttype\treference")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.Year,
			formatIntPtr(rec.FloweringDOY),
			formatIntPtr(rec.FloweringDate),
			formatIntPtr(rec.SourceCode),
			formatIntPtr(rec.DataTypeCode),
			formatStringPtr(rec.ReferenceName),
		)
	}
}

func writeTable(w io.Writer, records []domain.FlowerRecord) {
	fmt.Fprintln(w, "AD\tDOY\tdate\tsource\ttype\treference\tmonth\tday\tdate str\tweekday")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Year,
			formatIntPtr(rec.FloweringDOY),
			formatIntPtr(rec.FloweringDate),
			formatIntPtr(rec.SourceCode),
			formatIntPtr(rec.DataTypeCode),
			formatStringPtr(rec.ReferenceName),
			formatStringPtr(rec.Month),
			formatStringPtr(rec.DayOfMonth),
			formatStringPtr(rec.Date),
			formatStringPtr(rec.Weekday),
		)
	}
}

func head(records []domain.FlowerRecord, n int) []domain.FlowerRecord {
	return records[:max(0, min(n, len(records)))]
}

func tail(records []domain.FlowerRecord, n int) []domain.FlowerRecord {
	return records[len(records)-max(0, min(n, len(records))):]
}

func anchorName(a domain.Anchor) domain.Anchor {
	if a == "" {
		return domain.AnchorYears
	}
	return a
}

const missing = "NaN"

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloatPtr(p *float64) string {
	if p == nil {
		return missing
	}
	return formatFloat(*p)
}

func formatIntPtr(p *int) string {
	if p == nil {
		return missing
	}
	return strconv.Itoa(*p)
}

func formatStringPtr(p *string) string {
	if p == nil {
		return missing
	}
	return *p
}
