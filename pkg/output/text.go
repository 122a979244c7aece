package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/ccollicutt/worklog/pkg/analyzer"
	"github.com/ccollicutt/worklog/pkg/parser"
)

const clockLayout = "15:04:05"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Worklog: %.2fh over %d day(s), %.2fh billable, %.2fh non-billable\n",
		report.Summary.Total,
		report.Summary.DaysWorked,
		report.Summary.Billable,
		report.Summary.NonBillable)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Worklog Report ===")
	fmt.Fprintln(w)

	if f.opts.Verbose {
		f.formatMetadata(&report.Metadata, w)
	}

	if len(report.Days) == 0 {
		fmt.Fprintln(w, "No time recorded")
		fmt.Fprintln(w)
	}

	for i := range report.Days {
		f.formatDay(&report.Days[i], w)
	}

	if len(report.Weeks) > 0 {
		f.formatWeeks(report.Weeks, w)
	}

	if len(report.Summary.Ranking) > 0 {
		fmt.Fprintln(w, "Most time spent:")
		formatGroups(report.Summary.Ranking, "  ", w)
		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Total: %.2fh over %d day(s) (billable %.2fh, non-billable %.2fh)\n",
		report.Summary.Total,
		report.Summary.DaysWorked,
		report.Summary.Billable,
		report.Summary.NonBillable)

	if r := report.Metadata.Running; r != nil {
		fmt.Fprintf(w, "Running: %q since %s\n", r.Description, r.Since.Format(parser.TimestampLayout))
	}

	return nil
}

func (f *TextFormatter) formatMetadata(m *Metadata, w io.Writer) {
	if m.LogFile != "" {
		fmt.Fprintf(w, "Log file: %s\n", m.LogFile)
	}
	if m.TimeRange != nil {
		fmt.Fprintf(w, "Window: %s to %s\n",
			formatBound(m.TimeRange.Start, "-inf"),
			formatBound(m.TimeRange.End, "+inf"))
	}
	if m.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", m.Filter)
	}
	fmt.Fprintf(w, "Group depth: %d\n", m.GroupDepth)
	if !m.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "Generated: %s\n", m.GeneratedAt.Format(parser.TimestampLayout))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatDay(day *DayReport, w io.Writer) {
	fmt.Fprintf(w, "[%s] %s  %.2fh\n", day.Date.String(), weekdayOf(day.Date), day.Total)

	for _, iv := range day.Intervals {
		end := iv.End.Format(clockLayout)
		if iv.Running {
			end = "running "
		}
		fmt.Fprintf(w, "  %s - %s  %6.2f  %s\n",
			iv.Start.Format(clockLayout), end, iv.Hours, iv.Description)
	}

	if day.Grouped {
		fmt.Fprintln(w, "  Groups:")
		formatGroups(day.Groups, "    ", w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWeeks(weeks []analyzer.WeekStats, w io.Writer) {
	fmt.Fprintln(w, "Weeks:")
	for _, wk := range weeks {
		fmt.Fprintf(w, "  Week of %s: %.2fh over %d day(s)", wk.Start.String(), wk.Total, wk.DaysWorked)
		if wk.Target > 0 {
			if wk.Remaining >= 0 {
				fmt.Fprintf(w, ", %.2fh of %.2fh remaining", wk.Remaining, wk.Target)
			} else {
				fmt.Fprintf(w, ", %.2fh over %.2fh target", -wk.Remaining, wk.Target)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// formatGroups writes one line per group with the keys padded to a common
// display width, so wide runes in descriptions keep the hours aligned.
func formatGroups(groups []analyzer.GroupHours, indent string, w io.Writer) {
	width := 0
	for _, g := range groups {
		if n := runewidth.StringWidth(g.Key); n > width {
			width = n
		}
	}

	for _, g := range groups {
		fmt.Fprintf(w, "%s%s  %6.2fh", indent, runewidth.FillRight(g.Key, width), g.Hours)
		if g.NonBillable {
			fmt.Fprint(w, "  (non-billable)")
		}
		fmt.Fprintln(w)
	}
}

func weekdayOf(d parser.Date) string {
	return d.In(time.UTC).Weekday().String()[:3]
}

func formatBound(t time.Time, unbounded string) string {
	if t.IsZero() {
		return unbounded
	}
	return t.Format(parser.TimestampLayout)
}
