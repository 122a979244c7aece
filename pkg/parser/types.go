// Package parser provides activity log reading and parsing functionality.
package parser

import (
	"fmt"
	"time"
)

// TimestampLayout is the Go time layout of the timestamp field in log lines.
const TimestampLayout = "2006/01/02 15:04:05"

// Entry is a single clock-in or clock-out event.
type Entry struct {
	// IsStart is true for clock-in ("i") lines and false for clock-out ("o") lines.
	IsStart bool

	// Timestamp is the local wall-clock time of the event, second precision.
	Timestamp time.Time

	// Description is the free text following a clock-in timestamp.
	// Always empty for clock-out entries.
	Description string

	// Line is the 1-based line number in the source, zero for entries that
	// did not come from a log line.
	Line int

	// Synthetic marks a clock-out made up from the current time because the
	// log ends on an open clock-in.
	Synthetic bool
}

// Pair is one matched clock-in/clock-out interval.
type Pair struct {
	Start Entry
	End   Entry
}

// Duration returns the elapsed time between the start and end entries.
func (p Pair) Duration() time.Duration {
	return p.End.Timestamp.Sub(p.Start.Timestamp)
}

// Hours returns the elapsed time in hours.
func (p Pair) Hours() float64 {
	return p.Duration().Hours()
}

// SameDay reports whether both endpoints fall on the same calendar date.
func (p Pair) SameDay() bool {
	return DateOf(p.Start.Timestamp) == DateOf(p.End.Timestamp)
}

// Running reports whether the pair is still open in the log.
func (p Pair) Running() bool {
	return p.End.Synthetic
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight at the start of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is an earlier date than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Line is a raw, trimmed, non-blank log line before entry parsing.
type Line struct {
	// Text is the trimmed line content.
	Text string

	// Source is the file path or reader name this line came from.
	Source string

	// Num is the 1-based physical line number in the source.
	Num int
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for YYYY-MM-DD dates.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006-01-02", string(text))
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", text, err)
	}
	*d = DateOf(t)
	return nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	var d Date
	err := d.UnmarshalText([]byte(s))
	return d, err
}
