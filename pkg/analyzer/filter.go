package analyzer

import (
	"fmt"
	"regexp"

	"github.com/ccollicutt/worklog/pkg/parser"
)

// DescriptionFilter keeps pairs whose clock-in description matches a
// case-insensitive pattern, or the inverse when invert is set.
type DescriptionFilter struct {
	pattern *regexp.Regexp
	invert  bool
}

// NewDescriptionFilter compiles pattern case-insensitively.
// An empty pattern matches every pair.
func NewDescriptionFilter(pattern string, invert bool) (*DescriptionFilter, error) {
	f := &DescriptionFilter{invert: invert}
	if pattern == "" {
		return f, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid description pattern: %w", err)
	}
	f.pattern = re
	return f, nil
}

// Match reports whether the pair should be kept. A nil filter keeps everything.
func (f *DescriptionFilter) Match(p parser.Pair) bool {
	if f == nil || f.pattern == nil {
		return true
	}
	return f.pattern.MatchString(p.Start.Description) != f.invert
}

// String returns the pattern, prefixed with "!" when inverted.
func (f *DescriptionFilter) String() string {
	if f == nil || f.pattern == nil {
		return ""
	}
	s := f.pattern.String()[len("(?i)"):]
	if f.invert {
		return "!" + s
	}
	return s
}
