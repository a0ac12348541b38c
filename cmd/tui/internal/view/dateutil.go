package view

import (
	"time"

	"github.com/toby-sam/budget/internal/budget"
)

type Timeframe int

const (
	TimeframeAll       Timeframe = 0
	TimeframeThisMonth Timeframe = 1
	TimeframeLastMonth Timeframe = 2
)

const timeframeCount = 3

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// Next cycles to the following timeframe.
func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// TimeframeToDateRange returns the first and last day of the timeframe
// relative to now. The range is empty for TimeframeAll.
func TimeframeToDateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	var start time.Time

	switch tf {
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case TimeframeLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}
	}

	return start, start.AddDate(0, 1, -1)
}

// InTimeframe reports whether a ledger date falls in the timeframe. Dates
// that cannot be parsed only show under TimeframeAll.
func InTimeframe(date string, tf Timeframe, now time.Time) bool {
	if tf == TimeframeAll {
		return true
	}

	t, ok := budget.ParseDate(date)
	if !ok {
		return false
	}

	start, end := TimeframeToDateRange(tf, now)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return !day.Before(start) && !day.After(end)
}
