package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/worklog/pkg/interval"
	"github.com/ccollicutt/worklog/pkg/parser"
)

// Analyzer runs the parse, split, filter, aggregate and statistics pipeline.
type Analyzer struct {
	window  interval.Window
	filter  *DescriptionFilter
	depth   int
	billing *BillingClassifier
	targets Targets

	clock  func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithWindow limits analysis to pairs overlapping the window, clipping them
// to it.
func WithWindow(w interval.Window) Option {
	return func(a *Analyzer) {
		a.window = w
	}
}

// WithDescriptionFilter drops pairs the filter does not match.
func WithDescriptionFilter(f *DescriptionFilter) Option {
	return func(a *Analyzer) {
		a.filter = f
	}
}

// WithGroupDepth sets how many description tokens form the group key.
func WithGroupDepth(depth int) Option {
	return func(a *Analyzer) {
		a.depth = depth
	}
}

// WithNonBillable sets the group-key prefixes counted as non-billable.
func WithNonBillable(prefixes []string) Option {
	return func(a *Analyzer) {
		a.billing = NewBillingClassifier(prefixes)
	}
}

// WithTargets sets the expected working hours for weekly balances.
func WithTargets(t Targets) Option {
	return func(a *Analyzer) {
		a.targets = t
	}
}

// WithClock sets the source of the current time, used to close a
// still-running clock-in.
func WithClock(clock func() time.Time) Option {
	return func(a *Analyzer) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithLocation sets the location log timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer. Without options it reads the whole log,
// ungrouped, in local time.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		billing: NewBillingClassifier(nil),
		clock:   time.Now,
		loc:     time.Local,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.depth < 0 {
		return nil, fmt.Errorf("group depth must be >= 0, got %d", a.depth)
	}
	if !a.window.Begin.IsZero() && !a.window.End.IsZero() && !a.window.Begin.Before(a.window.End) {
		return nil, fmt.Errorf("empty window %s", a.window)
	}

	return a, nil
}

// Analyze reads every pair from source and returns the statistics.
// Any parse, ordering or consistency error aborts the run; no partial result
// is returned.
func (a *Analyzer) Analyze(ctx context.Context, source parser.LineSource) (*Result, error) {
	result := &Result{
		Metadata: Metadata{
			Window:     a.window,
			Filter:     a.filter.String(),
			GroupDepth: a.depth,
			AnalyzedAt: a.clock(),
		},
	}
	if named, ok := source.(interface{ Path() string }); ok {
		result.Metadata.Source = named.Path()
	}

	reader := parser.NewPairReader(source,
		parser.WithClock(a.clock),
		parser.WithLocation(a.loc),
	)
	agg := &Aggregator{}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pair, err := reader.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log: %w", err)
		}

		result.Metadata.PairsRead++

		clipped, err := a.window.Clip(pair)
		if err != nil {
			return nil, fmt.Errorf("clipping pair: %w", err)
		}

		for _, p := range clipped {
			if !a.filter.Match(p) {
				continue
			}
			agg.Add(p)
			result.Metadata.PairsKept++
			if p.Running() {
				open := pair.Start
				result.Metadata.Open = &open
			}
		}
	}

	summary, err := Summarize(agg.Days(), a.depth, a.billing)
	if err != nil {
		return nil, fmt.Errorf("summarizing: %w", err)
	}

	result.Days = agg.Days()
	result.Summary = summary
	result.Weeks = SummarizeWeeks(summary.Days, a.loc, a.targets)

	a.logger.DebugContext(ctx, "analysis complete",
		"window", a.window.String(),
		"pairs_read", result.Metadata.PairsRead,
		"pairs_kept", result.Metadata.PairsKept,
		"days", len(result.Days),
		"total_hours", summary.Total,
	)

	return result, nil
}
