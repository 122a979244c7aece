package parser

import "fmt"

// MalformedLineError reports a log line that does not match the entry grammar.
type MalformedLineError struct {
	// Line is the 1-based line number of the offending line.
	Line int

	// Text is the offending line content.
	Text string

	// Err is the underlying cause, if any (e.g. an impossible calendar date).
	Err error
}

func (e *MalformedLineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: malformed entry %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: malformed entry %q", e.Line, e.Text)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

// OrderingError reports entries that break the strict i/o alternation.
type OrderingError struct {
	// Line is the 1-based line number where the violation was detected.
	Line int

	// Reason describes the violation.
	Reason string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
