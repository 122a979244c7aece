package interval

import (
	"errors"
	"fmt"
	"time"

	"github.com/ccollicutt/worklog/pkg/parser"
)

// ErrInvertedPair is returned when a pair ends before it starts.
var ErrInvertedPair = errors.New("pair ends before it starts")

// Window is a half-open date-time range [Begin, End).
// A zero Begin or End leaves that side unbounded.
type Window struct {
	Begin time.Time
	End   time.Time
}

// All returns the unbounded window.
func All() Window {
	return Window{}
}

// Today returns the window covering now's calendar day.
func Today(now time.Time) Window {
	begin := StartOfDay(now)
	return Window{Begin: begin, End: nextMidnight(now)}
}

// ThisWeek returns the window from Monday 00:00 of now's week to the
// following Monday 00:00.
func ThisWeek(now time.Time) Window {
	begin := BeginningOfWeek(now)
	return Window{Begin: begin, End: begin.AddDate(0, 0, 7)}
}

// Days returns the window covering the calendar dates first through last,
// both inclusive, in loc.
func Days(first, last parser.Date, loc *time.Location) Window {
	return Window{
		Begin: first.In(loc),
		End:   last.In(loc).AddDate(0, 0, 1),
	}
}

// BeginningOfWeek returns midnight of the Monday on or before t.
func BeginningOfWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}

// IsZero reports whether the window is unbounded on both sides.
func (w Window) IsZero() bool {
	return w.Begin.IsZero() && w.End.IsZero()
}

// Contains reports whether the pair lies entirely inside the window.
func (w Window) Contains(p parser.Pair) bool {
	return w.notBeforeBegin(p.Start.Timestamp) && w.notAfterEnd(p.End.Timestamp)
}

// Clip restricts a pair to the window. The result holds zero, one or more
// pairs, each on a single calendar day and each contained in the window:
//   - pairs ending at or before Begin, or starting at or after End, are dropped;
//   - pairs fully inside are split at midnight when they cross days;
//   - pairs straddling a bound are split at midnight, segments outside the
//     window dropped, and the straddling segment truncated at the bound.
func (w Window) Clip(p parser.Pair) ([]parser.Pair, error) {
	i, o := p.Start.Timestamp, p.End.Timestamp

	switch {
	case o.Before(i):
		return nil, fmt.Errorf("%w: clock-in on line %d", ErrInvertedPair, p.Start.Line)
	case !w.Begin.IsZero() && !o.After(w.Begin):
		return nil, nil
	case !w.End.IsZero() && !i.Before(w.End):
		return nil, nil
	case w.Contains(p), !w.notBeforeBegin(i), !w.notAfterEnd(o):
		var out []parser.Pair
		for _, seg := range SplitAtMidnight(p) {
			if clipped, ok := w.clipSegment(seg); ok {
				out = append(out, clipped)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("window %s cannot classify pair on line %d", w, p.Start.Line)
	}
}

// clipSegment truncates a single-day segment to the window.
func (w Window) clipSegment(seg parser.Pair) (parser.Pair, bool) {
	s, e := seg.Start.Timestamp, seg.End.Timestamp
	if !w.Begin.IsZero() && !e.After(w.Begin) {
		return parser.Pair{}, false
	}
	if !w.End.IsZero() && !s.Before(w.End) {
		return parser.Pair{}, false
	}

	if !w.notBeforeBegin(s) {
		seg.Start.Timestamp = w.Begin
	}
	if !w.notAfterEnd(e) {
		seg.End = parser.Entry{Timestamp: w.End}
	}
	return seg, true
}

func (w Window) notBeforeBegin(t time.Time) bool {
	return w.Begin.IsZero() || !t.Before(w.Begin)
}

func (w Window) notAfterEnd(t time.Time) bool {
	return w.End.IsZero() || !t.After(w.End)
}

// String formats the window for logs and reports.
func (w Window) String() string {
	const layout = "2006-01-02 15:04:05"
	begin, end := "-inf", "+inf"
	if !w.Begin.IsZero() {
		begin = w.Begin.Format(layout)
	}
	if !w.End.IsZero() {
		end = w.End.Format(layout)
	}
	return fmt.Sprintf("[%s, %s)", begin, end)
}
