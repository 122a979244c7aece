// Package output provides formatting and output generation for time reports.
package output

import (
	"time"

	"github.com/ccollicutt/worklog/pkg/analyzer"
	"github.com/ccollicutt/worklog/pkg/parser"
)

// Report is the complete report output.
type Report struct {
	// Days lists each worked day with its intervals and groups.
	Days []DayReport `json:"days"`

	// Weeks sums the days by Monday-based week.
	Weeks []analyzer.WeekStats `json:"weeks,omitempty"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// DayReport is one calendar day of the report.
type DayReport struct {
	Date      parser.Date           `json:"date"`
	Intervals []Interval            `json:"intervals"`
	Groups    []analyzer.GroupHours `json:"groups"`
	Grouped   bool                  `json:"grouped"`
	Total     float64               `json:"total"`
}

// Interval is a single clock-in/clock-out pair within a day.
// Start and End are shown to the second; Hours keeps full precision.
type Interval struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	Running     bool      `json:"running,omitempty"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Total is the sum of all day totals.
	Total float64 `json:"total"`

	Billable    float64 `json:"billable"`
	NonBillable float64 `json:"non_billable"`

	// DaysWorked is the number of days in the report.
	DaysWorked int `json:"days_worked"`

	// Ranking lists groups by hours, most first.
	Ranking []analyzer.GroupHours `json:"ranking"`
}

// Metadata provides context about the report run.
type Metadata struct {
	// LogFile is the path of the activity log.
	LogFile string `json:"log_file,omitempty"`

	// TimeRange is the window applied, nil when unbounded.
	TimeRange *TimeRange `json:"time_range,omitempty"`

	// Filter is the description filter, "!"-prefixed when inverted.
	Filter string `json:"filter,omitempty"`

	GroupDepth int `json:"group_depth"`

	// Running is the still-open clock-in, if any.
	Running *RunningEntry `json:"running,omitempty"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// TimeRange represents a half-open time window. A zero side is unbounded.
type TimeRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// RunningEntry describes a clock-in with no clock-out yet.
type RunningEntry struct {
	Since       time.Time `json:"since"`
	Description string    `json:"description"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.Result) *Report {
	report := &Report{
		Days:  make([]DayReport, 0, len(result.Summary.Days)),
		Weeks: result.Weeks,
		Summary: Summary{
			Total:       result.Summary.Total,
			Billable:    result.Summary.Billable,
			NonBillable: result.Summary.NonBillable,
			DaysWorked:  len(result.Summary.Days),
			Ranking:     result.Summary.Ranking,
		},
		Metadata: Metadata{
			LogFile:     result.Metadata.Source,
			Filter:      result.Metadata.Filter,
			GroupDepth:  result.Metadata.GroupDepth,
			GeneratedAt: result.Metadata.AnalyzedAt,
		},
	}

	for _, ds := range result.Summary.Days {
		day := DayReport{
			Date:      ds.Day.Date,
			Intervals: make([]Interval, 0, len(ds.Day.Pairs)),
			Groups:    ds.Groups,
			Grouped:   ds.Grouped(),
			Total:     ds.Total,
		}
		for _, p := range ds.Day.Pairs {
			day.Intervals = append(day.Intervals, Interval{
				Start:       p.Start.Timestamp.Truncate(time.Second),
				End:         p.End.Timestamp.Truncate(time.Second),
				Hours:       p.Hours(),
				Description: p.Start.Description,
				Running:     p.Running(),
			})
		}
		report.Days = append(report.Days, day)
	}

	if w := result.Metadata.Window; !w.IsZero() {
		report.Metadata.TimeRange = &TimeRange{Start: w.Begin, End: w.End}
	}

	if open := result.Metadata.Open; open != nil {
		report.Metadata.Running = &RunningEntry{
			Since:       open.Timestamp,
			Description: open.Description,
		}
	}

	return report
}

// HasHours returns true if the report holds any recorded time.
func (r *Report) HasHours() bool {
	return r.Summary.Total > 0
}
