package analyzer

import (
	"time"

	"github.com/ccollicutt/worklog/pkg/interval"
	"github.com/ccollicutt/worklog/pkg/parser"
)

// Targets are the expected working hours used for weekly balances.
type Targets struct {
	HoursPerDay float64 `json:"hours_per_day"`
	DaysPerWeek int     `json:"days_per_week"`
}

// Weekly returns the expected hours for a full week, zero when unset.
func (t Targets) Weekly() float64 {
	return t.HoursPerDay * float64(t.DaysPerWeek)
}

// WeekStats sums the days of one Monday-based week.
type WeekStats struct {
	// Start is the Monday the week begins on.
	Start parser.Date `json:"start"`

	// DaysWorked counts distinct dates with at least one pair.
	DaysWorked int `json:"days_worked"`

	Total float64 `json:"total"`

	// Target is the expected hours for the week; zero when no targets
	// are configured.
	Target float64 `json:"target"`

	// Remaining is Target minus Total; negative means overtime. It stays
	// zero when no target is set.
	Remaining float64 `json:"remaining"`
}

// SummarizeWeeks groups day statistics by week, in order of first appearance.
func SummarizeWeeks(days []DayStats, loc *time.Location, targets Targets) []WeekStats {
	if loc == nil {
		loc = time.Local
	}

	var weeks []WeekStats
	index := make(map[parser.Date]int)
	seen := make(map[parser.Date]bool)

	for _, ds := range days {
		date := ds.Day.Date
		monday := parser.DateOf(interval.BeginningOfWeek(date.In(loc)))

		i, ok := index[monday]
		if !ok {
			i = len(weeks)
			index[monday] = i
			weeks = append(weeks, WeekStats{Start: monday, Target: targets.Weekly()})
		}

		w := &weeks[i]
		w.Total += ds.Total
		if !seen[date] {
			seen[date] = true
			w.DaysWorked++
		}
	}

	for i := range weeks {
		if weeks[i].Target > 0 {
			weeks[i].Remaining = weeks[i].Target - weeks[i].Total
		}
	}
	return weeks
}
