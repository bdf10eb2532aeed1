package models

import "time"

// TimeRange is a user-chosen interval on the booking calendar. Both endpoints
// are inclusive; eligibility checks compare at hour granularity to match the
// calendar cell size.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsZero reports whether either endpoint is missing.
func (r TimeRange) IsZero() bool {
	return r.From.IsZero() || r.To.IsZero()
}

// TruncateHour drops minutes and seconds, keeping the wall-clock hour in the
// time's own location.
func TruncateHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
