package models

import "time"

// AvailabilitySlot is one contiguous interval a tutor is open for lessons.
// Occurrence carries the backend's occurrence-capacity flag: 1 means the slot
// takes a single weekly occurrence, which is what marks it bookable as a
// recurring lesson.
type AvailabilitySlot struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Occurrence int       `json:"occurence"`
}

// Contains reports whether the range falls inside the slot at hour
// granularity, endpoints inclusive.
func (s AvailabilitySlot) Contains(r TimeRange) bool {
	from := TruncateHour(r.From)
	to := TruncateHour(r.To)
	return !from.Before(TruncateHour(s.From)) && !to.After(TruncateHour(s.To))
}

// Availability is one calendar day of a tutor's slots in a fixed timezone.
// It is replaced wholesale on date navigation, never mutated slot by slot.
// An Availability with no slots is a valid state.
type Availability struct {
	Slots    []AvailabilitySlot `json:"slots"`
	Timezone string             `json:"timezone"`
}

// Overlaps returns every slot containing both endpoints of the range, in
// insertion order.
func (a Availability) Overlaps(r TimeRange) []AvailabilitySlot {
	var out []AvailabilitySlot
	for _, slot := range a.Slots {
		if slot.Contains(r) {
			out = append(out, slot)
		}
	}
	return out
}
