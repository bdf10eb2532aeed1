// Package booking implements the lesson-booking pipeline: slot eligibility
// over a day of tutor availability, normalization of a calendar selection
// into a transport request, and reconciliation of the optimistic local state
// against the server's asynchronous confirmation.
package booking

import (
	"github.com/TopTalentDev/tutor-booking/models"
)

// Day is one day-view of booking state: the tutor's availability plus the
// user's own lessons for the same day. Replaced wholesale on navigation.
type Day struct {
	Availability models.Availability
	Lessons      []models.Lesson
}

// AllowsRecurrence reports whether a slot can take a weekly recurring
// booking. The backend encodes this as an occurrence capacity of exactly 1.
func AllowsRecurrence(slot models.AvailabilitySlot) bool {
	return slot.Occurrence == 1
}

// IsEligibleForRecurrence reports whether the selected range can become a
// recurring lesson. A slot list is single-digit sized in practice, so this is
// a deliberate first-match linear scan: the first slot that fully contains
// the range (hour granularity, endpoints inclusive) and allows recurrence
// decides. A range no single slot contains is never eligible; slots are not
// merged.
func IsEligibleForRecurrence(r models.TimeRange, availability models.Availability) bool {
	if r.IsZero() {
		return false
	}
	for _, slot := range availability.Slots {
		if slot.Contains(r) && AllowsRecurrence(slot) {
			return true
		}
	}
	return false
}
