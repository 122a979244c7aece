package analyzer

import (
	"fmt"
	"sort"
)

// GroupHours is the accumulated time of one group.
type GroupHours struct {
	Key         string  `json:"key"`
	Hours       float64 `json:"hours"`
	NonBillable bool    `json:"non_billable"`
}

// DayStats is the grouped view of a Day, computed once and kept apart from it.
type DayStats struct {
	Day *Day `json:"-"`

	// Groups is sorted by key. When grouping is off it holds a single
	// entry with the empty key.
	Groups []GroupHours `json:"groups"`

	// Total is the sum of Groups.
	Total float64 `json:"total"`
}

// Grouped reports whether the day has real groups rather than the single
// ungrouped bucket.
func (s DayStats) Grouped() bool {
	return len(s.Groups) > 1 || (len(s.Groups) == 1 && s.Groups[0].Key != "")
}

// Summary holds the statistics across all days.
type Summary struct {
	Days []DayStats `json:"days"`

	// Ranking lists every group across all days, most hours first.
	Ranking []GroupHours `json:"ranking"`

	Total       float64 `json:"total"`
	Billable    float64 `json:"billable"`
	NonBillable float64 `json:"non_billable"`
}

// buckets accumulates hours per group key. The empty key is always present
// and stands for "no grouping".
type buckets map[string]float64

func newBuckets() buckets {
	return buckets{"": 0}
}

// groups drops the reserved empty key when real groups exist and returns the
// remaining buckets sorted by key.
func (b buckets) groups() []GroupHours {
	if len(b) > 1 {
		delete(b, "")
	}

	out := make([]GroupHours, 0, len(b))
	for key, hours := range b {
		out = append(out, GroupHours{Key: key, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

func sumGroups(groups []GroupHours) float64 {
	var sum float64
	for _, g := range groups {
		sum += g.Hours
	}
	return sum
}

// ComputeDay groups a day's hours by GroupKey at the given depth.
func ComputeDay(d *Day, depth int) (DayStats, error) {
	b := newBuckets()
	for _, p := range d.Pairs {
		b[GroupKey(p.Start.Description, depth)] += p.Hours()
	}

	stats := DayStats{Day: d, Groups: b.groups()}
	stats.Total = sumGroups(stats.Groups)

	if err := reconcile(fmt.Sprintf("day %s", d.Date), stats.Total, d.Hours()); err != nil {
		return DayStats{}, err
	}
	return stats, nil
}

// Summarize computes per-day statistics, the overall group ranking and the
// billable/non-billable split.
func Summarize(days []*Day, depth int, billing *BillingClassifier) (*Summary, error) {
	summary := &Summary{Days: make([]DayStats, 0, len(days))}
	grand := newBuckets()

	for _, d := range days {
		stats, err := ComputeDay(d, depth)
		if err != nil {
			return nil, err
		}
		for i := range stats.Groups {
			stats.Groups[i].NonBillable = billing.IsNonBillable(stats.Groups[i].Key)
			grand[stats.Groups[i].Key] += stats.Groups[i].Hours
		}
		summary.Days = append(summary.Days, stats)
		summary.Total += stats.Total
	}

	if len(days) > 0 {
		summary.Ranking = grand.groups()
	}
	sort.SliceStable(summary.Ranking, func(i, j int) bool {
		return summary.Ranking[i].Hours > summary.Ranking[j].Hours
	})

	for i := range summary.Ranking {
		g := &summary.Ranking[i]
		g.NonBillable = billing.IsNonBillable(g.Key)
		if g.NonBillable {
			summary.NonBillable += g.Hours
		} else {
			summary.Billable += g.Hours
		}
	}

	if err := reconcile("group ranking", sumGroups(summary.Ranking), summary.Total); err != nil {
		return nil, err
	}
	if err := reconcile("billable split", summary.Billable+summary.NonBillable, summary.Total); err != nil {
		return nil, err
	}
	return summary, nil
}
