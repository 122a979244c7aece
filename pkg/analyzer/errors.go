package analyzer

import "fmt"

// Tolerance is the maximum difference, in hours, allowed between sums that
// must reconcile.
const Tolerance = 1e-4

// ConsistencyError reports aggregate sums that fail to reconcile.
// It indicates a defect in splitting or aggregation, never bad input.
type ConsistencyError struct {
	// Scope names the sums being compared, e.g. "day 2020-01-01".
	Scope string

	Got  float64
	Want float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: sums do not reconcile (got %.6f hours, want %.6f)", e.Scope, e.Got, e.Want)
}

// reconcile returns a ConsistencyError if got and want differ by more than
// Tolerance.
func reconcile(scope string, got, want float64) error {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > Tolerance {
		return &ConsistencyError{Scope: scope, Got: got, Want: want}
	}
	return nil
}
