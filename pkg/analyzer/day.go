package analyzer

import (
	"github.com/ccollicutt/worklog/pkg/parser"
)

// Day holds the pairs that started on one calendar date, in log order.
type Day struct {
	Date  parser.Date
	Pairs []parser.Pair
}

// Hours returns the sum of elapsed hours over the day's pairs.
func (d *Day) Hours() float64 {
	var sum float64
	for _, p := range d.Pairs {
		sum += p.Hours()
	}
	return sum
}

// Running reports whether the day holds a still-open clock-in.
func (d *Day) Running() bool {
	for _, p := range d.Pairs {
		if p.Running() {
			return true
		}
	}
	return false
}

// Aggregator groups a time-ordered pair stream into days.
//
// A new Day opens whenever a pair's start date differs from the most recently
// opened Day. Pairs are not re-sorted, so a date that reappears after a later
// date opens a second Day for it.
type Aggregator struct {
	days []*Day
}

// Add appends a pair to the current day, opening a new day if needed.
func (a *Aggregator) Add(p parser.Pair) {
	date := parser.DateOf(p.Start.Timestamp)
	if n := len(a.days); n == 0 || a.days[n-1].Date != date {
		a.days = append(a.days, &Day{Date: date})
	}
	last := a.days[len(a.days)-1]
	last.Pairs = append(last.Pairs, p)
}

// Days returns the days in the order they were opened.
func (a *Aggregator) Days() []*Day {
	return a.days
}
