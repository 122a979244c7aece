// Package interval splits clock-in/clock-out pairs at day boundaries and
// clips them to date-time windows.
package interval

import (
	"time"

	"github.com/ccollicutt/worklog/pkg/parser"
)

// StartOfDay returns midnight at the start of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
// It renders as 23:59:59 at second precision.
func EndOfDay(t time.Time) time.Time {
	return nextMidnight(t).Add(-time.Nanosecond)
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// SplitAtMidnight splits a pair whose endpoints fall on different calendar
// dates into one pair per date. A pair spanning two dates yields exactly
// (start, 23:59:59 of the start date) and (00:00:00 of the end date, end);
// every produced start carries the original description.
// Same-day pairs, and pairs that end before they start, are returned as-is.
func SplitAtMidnight(p parser.Pair) []parser.Pair {
	if p.SameDay() || p.End.Timestamp.Before(p.Start.Timestamp) {
		return []parser.Pair{p}
	}

	endDate := parser.DateOf(p.End.Timestamp)
	var out []parser.Pair

	start := p.Start
	for parser.DateOf(start.Timestamp) != endDate {
		out = append(out, parser.Pair{
			Start: start,
			End:   parser.Entry{Timestamp: EndOfDay(start.Timestamp), Line: p.End.Line},
		})
		start = parser.Entry{
			IsStart:     true,
			Timestamp:   nextMidnight(start.Timestamp),
			Description: p.Start.Description,
			Line:        p.Start.Line,
		}
	}

	// A clock-out exactly at midnight leaves nothing on the end date.
	if start.Timestamp.Equal(p.End.Timestamp) {
		out[len(out)-1].End = p.End
		out[len(out)-1].End.Timestamp = EndOfDay(out[len(out)-1].Start.Timestamp)
		return out
	}

	return append(out, parser.Pair{Start: start, End: p.End})
}
