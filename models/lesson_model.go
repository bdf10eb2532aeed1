package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is the canonical record returned by the backend once a booking is
// accepted. Tutor, student and subject identity never change after creation;
// time and location may via an accepted change proposal.
type Lesson struct {
	ID              uuid.UUID   `json:"id"`
	TutorID         uuid.UUID   `json:"tutor"`
	StudentID       uuid.UUID   `json:"student"`
	SubjectID       uuid.UUID   `json:"subject"`
	StartsAt        time.Time   `json:"starts_at"`
	EndsAt          time.Time   `json:"ends_at"`
	DurationMinutes int         `json:"duration_minutes"`
	Meet            MeetingMode `json:"meet"`
	Location        string      `json:"location,omitempty"`
	RecurrentCount  int         `json:"recurrent_count,omitempty"`
}

// Online reports whether the lesson happens over video rather than in person.
func (l Lesson) Online() bool {
	return l.Meet == MeetOnline
}

// Duration is the lesson length as a time.Duration.
func (l Lesson) Duration() time.Duration {
	return time.Duration(l.DurationMinutes) * time.Minute
}
