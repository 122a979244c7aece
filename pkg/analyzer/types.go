// Package analyzer turns clock-in/clock-out pairs into per-day and overall
// time statistics.
package analyzer

import (
	"time"

	"github.com/ccollicutt/worklog/pkg/interval"
	"github.com/ccollicutt/worklog/pkg/parser"
)

// Result contains the complete analysis output.
type Result struct {
	// Days holds the filtered pairs grouped by start date.
	Days []*Day

	// Summary holds the grouped statistics for Days.
	Summary *Summary

	// Weeks sums Summary.Days by Monday-based week.
	Weeks []WeekStats

	// Metadata provides context about the analysis.
	Metadata Metadata
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Source is the log the pairs were read from.
	Source string

	// Window is the date-time window applied.
	Window interval.Window

	// Filter is the description filter applied, empty when none.
	Filter string

	// GroupDepth is the number of description tokens used as group key.
	GroupDepth int

	// PairsRead counts pairs read from the log before any filtering.
	PairsRead int

	// PairsKept counts pairs, after splitting and clipping, that passed
	// every filter.
	PairsKept int

	// Open is the clock-in still running at the end of the log, set only
	// when its running segment survived the window and filter.
	Open *parser.Entry

	// AnalyzedAt is the clock reading when analysis began.
	AnalyzedAt time.Time
}

// Running reports whether the report holds an open clock-in.
func (r *Result) Running() bool {
	return r.Metadata.Open != nil
}
