package ledger

import (
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// Period is a billing cycle key, always the zero-padded "YYYY-MM" form so
// periods compare correctly as plain strings.
type Period string

// PeriodOf returns the period a date falls in.
func PeriodOf(t time.Time) Period {
	return Period(t.Format(periodLayout))
}

// ParsePeriod validates a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return "", fmt.Errorf("period %q: want YYYY-MM: %w", s, err)
	}
	return PeriodOf(t), nil
}

// Time returns the first instant of the period's month.
func (p Period) Time() time.Time {
	t, _ := time.Parse(periodLayout, string(p))
	return t
}

// Valid reports whether the period is a well-formed "YYYY-MM" key.
func (p Period) Valid() bool {
	_, err := time.Parse(periodLayout, string(p))
	return err == nil
}

// AddMonths returns the period n months after (or before, for negative n)
// this one.
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Time().AddDate(0, n, 0))
}

// Before reports whether p sorts before other. Period keys have fixed
// width, so lexicographic order is chronological order.
func (p Period) Before(other Period) bool {
	return string(p) < string(other)
}
