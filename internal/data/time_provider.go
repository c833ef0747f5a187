package data

import "time"

// DateLayout is the calendar-date format used for the backup table's date column.
const DateLayout = "2006-01-02"

// TimeProvider provides time-related functionality that can be mocked for testing.
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time
}

// Today returns the calendar date of tp.Now() in loc, formatted with DateLayout.
// A nil loc uses the host's local zone.
func Today(tp TimeProvider, loc *time.Location) string {
	if tp == nil {
		tp = RealTimeProvider{}
	}
	if loc == nil {
		loc = time.Local
	}
	return tp.Now().In(loc).Format(DateLayout)
}

// RealTimeProvider implements TimeProvider using real system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FixedTimeProvider implements TimeProvider with a fixed time for testing.
type FixedTimeProvider struct {
	fixedTime time.Time
}

// NewFixedTimeProvider creates a new FixedTimeProvider with the given time.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	return f.fixedTime
}

// AddTime adds a duration to the current fixed time (useful for crossing midnight in tests).
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.fixedTime = f.fixedTime.Add(d)
}
