package usage

import (
	"fmt"
	"strings"
	"time"
)

// Period is the budget aggregation granularity.
type Period string

// Aggregation periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod parses a period name. Empty means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day or month)", s)
	}
}

// Bounds returns the UTC window of the period that contains t.
func (p Period) Bounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Report is the generation token usage for one period.
// Limit 0 means unlimited; Remaining is then -1.
type Report struct {
	Period    Period
	Start     time.Time
	End       time.Time
	Used      int64
	Limit     int64
	Remaining int64
}

// Exhausted reports whether a limited budget is spent.
func (r Report) Exhausted() bool {
	return r.Limit > 0 && r.Remaining <= 0
}
