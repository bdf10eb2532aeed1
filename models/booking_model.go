package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MeetingMode distinguishes online from in-person lessons. The numeric values
// are part of the wire contract.
type MeetingMode int

const (
	MeetOnline   MeetingMode = 2
	MeetInPerson MeetingMode = 4
)

// BookingRequest is the transport payload for a lesson creation attempt.
// Built fresh per submission, never persisted locally.
type BookingRequest struct {
	TutorID        uuid.UUID   `json:"tutor" validate:"required"`
	StudentID      uuid.UUID   `json:"student" validate:"required"`
	SubjectID      uuid.UUID   `json:"subject" validate:"required"`
	When           time.Time   `json:"when" validate:"required"`
	Duration       string      `json:"duration" validate:"required"`
	Meet           MeetingMode `json:"meet" validate:"oneof=2 4"`
	Recurrent      bool        `json:"recurrent"`
	Location       string      `json:"location,omitempty"`
	RecurrentCount int         `json:"recurrent_count,omitempty"`
}

// FormatDurationMinutes renders a fractional minute count in the backend's
// duration format, e.g. "90m".
func FormatDurationMinutes(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64) + "m"
}
