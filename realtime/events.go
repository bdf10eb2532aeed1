package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event is one frame on the notification channel.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Channel event names the booking session cares about.
const (
	EventAuth           = "auth"
	EventNotification   = "notification"
	EventBookingPending = "booking.pending"
	EventBookingCancel  = "booking.cancel"
)

// AuthPayload is the first frame sent after connecting.
type AuthPayload struct {
	Token string `json:"token"`
}

// LessonNotification identifies the lesson a server-side confirmation refers
// to. A pending booking matches when its student appears in Students and
// tutor and subject are equal.
type LessonNotification struct {
	Students []uuid.UUID `json:"students"`
	Tutor    uuid.UUID   `json:"tutor"`
	Subject  uuid.UUID   `json:"subject"`
}

// Matches implements the confirmation predicate against a submitted request
// identified by its (student, tutor, subject) triple.
func (n LessonNotification) Matches(student, tutor, subject uuid.UUID) bool {
	if n.Tutor != tutor || n.Subject != subject {
		return false
	}
	for _, s := range n.Students {
		if s == student {
			return true
		}
	}
	return false
}

// notificationEnvelope mirrors the nesting of the wire payload:
// data.notification.data.lesson.
type notificationEnvelope struct {
	Notification struct {
		Data struct {
			Lesson *LessonNotification `json:"lesson"`
		} `json:"data"`
	} `json:"notification"`
}

// ParseLessonNotification digs the lesson identity out of a notification
// event. Returns false for notifications about anything other than a lesson.
func ParseLessonNotification(ev Event) (LessonNotification, bool) {
	if ev.Type != EventNotification || len(ev.Data) == 0 {
		return LessonNotification{}, false
	}
	var env notificationEnvelope
	if err := json.Unmarshal(ev.Data, &env); err != nil || env.Notification.Data.Lesson == nil {
		return LessonNotification{}, false
	}
	return *env.Notification.Data.Lesson, true
}

// BookingIntent is the advisory payload of booking.pending / booking.cancel
// signals. No acknowledgement is expected.
type BookingIntent struct {
	Tutor uuid.UUID `json:"tutor"`
}
