package parser

import (
	"context"
	"io"
	"time"
)

// PairReader reads entries two at a time from a LineSource, producing matched
// clock-in/clock-out pairs.
type PairReader struct {
	source LineSource
	parser *EntryParser
	clock  func() time.Time
}

// PairReaderOption configures a PairReader.
type PairReaderOption func(*PairReader)

// WithClock sets the function used to close a still-running clock-in.
func WithClock(clock func() time.Time) PairReaderOption {
	return func(r *PairReader) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLocation sets the location timestamps are parsed in.
func WithLocation(loc *time.Location) PairReaderOption {
	return func(r *PairReader) {
		r.parser = NewEntryParser(loc)
	}
}

// NewPairReader creates a PairReader over source.
func NewPairReader(source LineSource, opts ...PairReaderOption) *PairReader {
	r := &PairReader{
		source: source,
		parser: NewEntryParser(nil),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next pair.
// Returns io.EOF when the log is exhausted. A log ending on a clock-in yields
// one final pair whose end is synthesized from the clock.
func (r *PairReader) Next(ctx context.Context) (Pair, error) {
	start, err := r.nextEntry(ctx)
	if err != nil {
		return Pair{}, err
	}
	if !start.IsStart {
		return Pair{}, &OrderingError{Line: start.Line, Reason: "clock-out without a preceding clock-in"}
	}

	end, err := r.nextEntry(ctx)
	if err == io.EOF {
		return Pair{Start: start, End: r.runningEnd(start)}, nil
	}
	if err != nil {
		return Pair{}, err
	}

	if end.IsStart {
		return Pair{}, &OrderingError{Line: end.Line, Reason: "clock-in while already clocked in"}
	}
	if end.Timestamp.Before(start.Timestamp) {
		return Pair{}, &OrderingError{Line: end.Line, Reason: "clock-out earlier than its clock-in"}
	}

	return Pair{Start: start, End: end}, nil
}

// ReadAll drains the reader and returns every pair.
func (r *PairReader) ReadAll(ctx context.Context) ([]Pair, error) {
	var pairs []Pair
	for {
		pair, err := r.Next(ctx)
		if err == io.EOF {
			return pairs, nil
		}
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
}

func (r *PairReader) nextEntry(ctx context.Context) (Entry, error) {
	line, err := r.source.Next(ctx)
	if err != nil {
		return Entry{}, err
	}
	return r.parser.Parse(line.Text, line.Num)
}

// runningEnd synthesizes the clock-out of an open clock-in. A clock behind
// the start (e.g. a log written on another machine) is clamped to the start.
func (r *PairReader) runningEnd(start Entry) Entry {
	now := r.clock().In(start.Timestamp.Location()).Truncate(time.Second)
	if now.Before(start.Timestamp) {
		now = start.Timestamp
	}
	return Entry{Timestamp: now, Synthetic: true}
}
