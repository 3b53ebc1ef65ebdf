package shared

import (
	"strings"
	"time"
)

// MonthLayout is the query-string format of month filters.
const MonthLayout = "2006-01"

// MonthRange is a half-open calendar month [Start, End) in UTC.
type MonthRange struct {
	Start time.Time
	End   time.Time
}

// ParseMonth parses a "YYYY-MM" filter. Empty and "all" mean no filter and return nil.
func ParseMonth(value string) (*MonthRange, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return nil, nil
	}
	start, err := time.ParseInLocation(MonthLayout, value, time.UTC)
	if err != nil {
		return nil, NewValidationError("month", "month must be formatted as YYYY-MM")
	}
	return &MonthRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// MonthOf returns the range containing t.
func MonthOf(t time.Time) MonthRange {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// Bounds returns nil pointers for a nil range so repositories can bind
// them as SQL NULL and skip the predicate.
func (m *MonthRange) Bounds() (*time.Time, *time.Time) {
	if m == nil {
		return nil, nil
	}
	start, end := m.Start, m.End
	return &start, &end
}

// Contains reports whether t falls inside the range; a nil range contains everything.
func (m *MonthRange) Contains(t time.Time) bool {
	if m == nil {
		return true
	}
	return !t.Before(m.Start) && t.Before(m.End)
}

// Key renders the range as "YYYY-MM", or "all" for a nil range.
func (m *MonthRange) Key() string {
	if m == nil {
		return "all"
	}
	return m.Start.Format(MonthLayout)
}
