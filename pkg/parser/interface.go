package parser

import (
	"context"
)

// LineSource provides an iterator over trimmed, non-blank log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next non-blank line with its 1-based line number.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (Line, error)

	// Close releases any resources held by the source.
	Close() error
}
