package models

import (
	"time"

	"github.com/google/uuid"
)

// LessonChange is a partial proposal against an existing lesson. Zero-valued
// fields are left out of the payload and remain unchanged server-side.
type LessonChange struct {
	SubjectID uuid.UUID   `json:"subject,omitempty"`
	Meet      MeetingMode `json:"meet,omitempty"`
	Location  string      `json:"location,omitempty"`
	When      *time.Time  `json:"when,omitempty"`
	Ends      *time.Time  `json:"ends,omitempty"`
}
