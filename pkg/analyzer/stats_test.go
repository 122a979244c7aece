package analyzer

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/worklog/pkg/interval"
	"github.com/ccollicutt/worklog/pkg/parser"
)

func testPair(start time.Time, d time.Duration, desc string) parser.Pair {
	return parser.Pair{
		Start: parser.Entry{IsStart: true, Timestamp: start, Description: desc},
		End:   parser.Entry{Timestamp: start.Add(d)},
	}
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		desc  string
		depth int
		want  string
	}{
		{"Lojic research Ruby", 2, "Lojic research"},
		{"Lojic research Ruby", 0, ""},
		{"Lojic research Ruby", 1, "Lojic"},
		{"Lojic research Ruby", 3, "Lojic research Ruby"},
		{"Lojic research Ruby", 4, "Lojic research Ruby"},
		{"Lojic research Ruby", 10, "Lojic research Ruby"},
		{"  Lojic   research  ", 5, "Lojic research"},
		{"", 0, ""},
		{"", 2, NoDescriptionGroup},
		{"Lojic", -1, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GroupKey(tt.desc, tt.depth), "GroupKey(%q, %d)", tt.desc, tt.depth)
	}
}

func TestBillingClassifier(t *testing.T) {
	c := NewBillingClassifier([]string{"Admin", " personal ", ""})

	assert.True(t, c.IsNonBillable("Admin"))
	assert.True(t, c.IsNonBillable("admin email"))
	assert.True(t, c.IsNonBillable("PERSONAL errands"))
	assert.False(t, c.IsNonBillable("Acme"))
	assert.False(t, c.IsNonBillable(""))

	var none *BillingClassifier
	assert.False(t, none.IsNonBillable("Admin"))
}

func TestAggregator_GroupsByStartDate(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	agg.Add(testPair(base, time.Hour, "a"))
	agg.Add(testPair(base.Add(2*time.Hour), time.Hour, "b"))
	agg.Add(testPair(base.AddDate(0, 0, 1), time.Hour, "c"))

	days := agg.Days()
	require.Len(t, days, 2)
	assert.Len(t, days[0].Pairs, 2)
	assert.Equal(t, "b", days[0].Pairs[1].Start.Description)
	assert.Len(t, days[1].Pairs, 1)
}

func TestAggregator_DateRegressionOpensNewDay(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	agg.Add(testPair(base, time.Hour, "a"))
	agg.Add(testPair(base.AddDate(0, 0, 1), time.Hour, "b"))
	agg.Add(testPair(base.Add(3*time.Hour), time.Hour, "c"))

	days := agg.Days()
	require.Len(t, days, 3)
	assert.Equal(t, days[0].Date, days[2].Date)
}

func TestComputeDay_Ungrouped(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	day := &Day{Pairs: []parser.Pair{
		testPair(base, 2*time.Hour, "Acme"),
		testPair(base.Add(3*time.Hour), 90*time.Minute, "Beta"),
	}}

	stats, err := ComputeDay(day, 0)
	require.NoError(t, err)
	require.Len(t, stats.Groups, 1)
	assert.Equal(t, "", stats.Groups[0].Key)
	assert.False(t, stats.Grouped())
	assert.InDelta(t, 3.5, stats.Total, Tolerance)
}

func TestComputeDay_Grouped(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	day := &Day{Pairs: []parser.Pair{
		testPair(base, 2*time.Hour, "Beta design"),
		testPair(base.Add(3*time.Hour), time.Hour, "Acme"),
		testPair(base.Add(5*time.Hour), 30*time.Minute, "Beta review"),
		testPair(base.Add(6*time.Hour), 15*time.Minute, ""),
	}}

	stats, err := ComputeDay(day, 1)
	require.NoError(t, err)
	assert.True(t, stats.Grouped())

	keys := make([]string, len(stats.Groups))
	for i, g := range stats.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{NoDescriptionGroup, "Acme", "Beta"}, keys)
	assert.InDelta(t, 2.5, stats.Groups[2].Hours, Tolerance)
	assert.InDelta(t, 3.75, stats.Total, Tolerance)
}

func TestComputeDay_SingleRealGroup(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	day := &Day{Pairs: []parser.Pair{testPair(base, time.Hour, "Acme")}}

	stats, err := ComputeDay(day, 1)
	require.NoError(t, err)
	require.Len(t, stats.Groups, 1)
	assert.Equal(t, "Acme", stats.Groups[0].Key)
	assert.True(t, stats.Grouped())
}

func TestSummarize_RankingAndBilling(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	agg.Add(testPair(base, time.Hour, "Admin email"))
	agg.Add(testPair(base.Add(2*time.Hour), 3*time.Hour, "Acme api"))
	agg.Add(testPair(base.AddDate(0, 0, 1), 2*time.Hour, "Beta"))
	agg.Add(testPair(base.AddDate(0, 0, 1).Add(3*time.Hour), time.Hour, "Acme ui"))

	summary, err := Summarize(agg.Days(), 1, NewBillingClassifier([]string{"ADMIN"}))
	require.NoError(t, err)

	require.Len(t, summary.Ranking, 3)
	assert.Equal(t, "Acme", summary.Ranking[0].Key)
	assert.InDelta(t, 4.0, summary.Ranking[0].Hours, Tolerance)
	assert.Equal(t, "Beta", summary.Ranking[1].Key)
	assert.Equal(t, "Admin", summary.Ranking[2].Key)
	assert.True(t, summary.Ranking[2].NonBillable)
	assert.True(t, summary.Days[0].Groups[1].NonBillable)

	assert.InDelta(t, 7.0, summary.Total, Tolerance)
	assert.InDelta(t, 6.0, summary.Billable, Tolerance)
	assert.InDelta(t, 1.0, summary.NonBillable, Tolerance)
}

func TestSummarize_RankingTiesSortByKey(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	agg.Add(testPair(base, time.Hour, "Zed"))
	agg.Add(testPair(base.Add(time.Hour), time.Hour, "Alpha"))

	summary, err := Summarize(agg.Days(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", summary.Ranking[0].Key)
	assert.Equal(t, "Zed", summary.Ranking[1].Key)
}

func TestReconcile(t *testing.T) {
	assert.NoError(t, reconcile("x", 1.0, 1.00005))

	err := reconcile("day 2020-01-01", 1.0, 1.01)
	var consistency *ConsistencyError
	require.True(t, errors.As(err, &consistency))
	assert.Equal(t, "day 2020-01-01", consistency.Scope)
	assert.Contains(t, err.Error(), "do not reconcile")
}

// randomDays builds a time-ordered stream of pairs over several days,
// including midnight crossings, and aggregates them the way Analyze does.
func randomDays(rng *rand.Rand) ([]*Day, float64) {
	words := []string{"Acme", "Beta", "Admin", "research", "api", "Ruby", "call"}
	cursor := time.Date(2020, 1, 1, 6, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	var want float64

	for n := rng.Intn(40); n >= 0; n-- {
		cursor = cursor.Add(time.Duration(rng.Intn(10*60)) * time.Minute)
		d := time.Duration(rng.Intn(8*60*60)) * time.Second

		var desc string
		for k := rng.Intn(4); k > 0; k-- {
			if desc != "" {
				desc += " "
			}
			desc += words[rng.Intn(len(words))]
		}

		p := testPair(cursor, d, desc)
		want += p.Hours()
		for _, seg := range interval.SplitAtMidnight(p) {
			agg.Add(seg)
		}
		cursor = p.End.Timestamp
	}
	return agg.Days(), want
}

func TestSummarize_GroupSumsReconcileProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 300; n++ {
		days, want := randomDays(rng)
		depth := rng.Intn(5)

		summary, err := Summarize(days, depth, nil)
		require.NoError(t, err)

		var groupSum float64
		for i, ds := range summary.Days {
			for _, g := range ds.Groups {
				groupSum += g.Hours
			}
			assert.InDelta(t, days[i].Hours(), ds.Total, Tolerance)
		}
		assert.InDelta(t, want, groupSum, Tolerance)
		assert.InDelta(t, want, summary.Total, Tolerance)
	}
}

func TestSummarize_BillableSplitProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	prefixes := []string{"acme", "ADMIN", "b", "research", "Ruby", "zzz"}

	for n := 0; n < 300; n++ {
		days, _ := randomDays(rng)

		var nonBillable []string
		for _, p := range prefixes {
			if rng.Intn(2) == 0 {
				nonBillable = append(nonBillable, p)
			}
		}

		summary, err := Summarize(days, rng.Intn(4), NewBillingClassifier(nonBillable))
		require.NoError(t, err)
		assert.InDelta(t, summary.Total, summary.Billable+summary.NonBillable, Tolerance)
	}
}

func TestSummarize_NoDescriptionGroup(t *testing.T) {
	base := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	agg := &Aggregator{}
	agg.Add(testPair(base, 2*time.Hour, ""))
	agg.Add(testPair(base.Add(3*time.Hour), time.Hour, "Admin email"))
	agg.Add(testPair(base.Add(5*time.Hour), 30*time.Minute, "   "))

	summary, err := Summarize(agg.Days(), 1, NewBillingClassifier([]string{"admin"}))
	require.NoError(t, err)

	require.Len(t, summary.Ranking, 2)
	assert.Equal(t, NoDescriptionGroup, summary.Ranking[0].Key)
	assert.InDelta(t, 2.5, summary.Ranking[0].Hours, Tolerance)
	assert.False(t, summary.Ranking[0].NonBillable)
	assert.Equal(t, "Admin", summary.Ranking[1].Key)

	assert.InDelta(t, 2.5, summary.Billable, Tolerance)
	assert.InDelta(t, 1.0, summary.NonBillable, Tolerance)

	for _, g := range summary.Days[0].Groups {
		assert.NotEqual(t, "", g.Key)
	}
}
