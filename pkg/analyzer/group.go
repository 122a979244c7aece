package analyzer

import "strings"

// NoDescriptionGroup is the group key for clock-ins without a description
// when grouping is enabled. It keeps them apart from the reserved empty key.
const NoDescriptionGroup = "(none)"

// GroupKey returns the first depth whitespace-separated tokens of
// description, joined by single spaces. Depth 0 always yields "".
func GroupKey(description string, depth int) string {
	if depth <= 0 {
		return ""
	}

	fields := strings.Fields(description)
	if len(fields) == 0 {
		return NoDescriptionGroup
	}
	if depth < len(fields) {
		fields = fields[:depth]
	}
	return strings.Join(fields, " ")
}

// BillingClassifier decides whether a group is billable.
type BillingClassifier struct {
	nonBillable []string
}

// NewBillingClassifier creates a classifier from non-billable group-key
// prefixes. Matching is case-insensitive.
func NewBillingClassifier(nonBillable []string) *BillingClassifier {
	c := &BillingClassifier{}
	for _, prefix := range nonBillable {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			c.nonBillable = append(c.nonBillable, strings.ToLower(prefix))
		}
	}
	return c
}

// IsNonBillable reports whether key starts with any non-billable prefix.
func (c *BillingClassifier) IsNonBillable(key string) bool {
	if c == nil {
		return false
	}
	lower := strings.ToLower(key)
	for _, prefix := range c.nonBillable {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
