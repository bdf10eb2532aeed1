package models

import (
	"fmt"

	"github.com/google/uuid"
)

// TutoringSubject pairs a subject a tutor teaches with its hourly rate.
type TutoringSubject struct {
	Subject Subject `json:"subject"`
	Rate    float64 `json:"rate,omitempty"`
}

type User struct {
	ID              uuid.UUID         `json:"id"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Timezone        string            `json:"timezone"`
	CanMeetInPerson bool              `json:"can_meet_in_person"`
	HasPaymentCard  bool              `json:"cc"`
	Subjects        []TutoringSubject `json:"subjects,omitempty"`
}

// ShortName is the display form used in notifications, e.g. "Alice B.".
func (u User) ShortName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return fmt.Sprintf("%s %c.", u.FirstName, u.LastName[0])
}

// Teaches reports whether the tutor currently offers the subject.
func (u User) Teaches(subjectID uuid.UUID) bool {
	for _, ts := range u.Subjects {
		if ts.Subject.ID == subjectID {
			return true
		}
	}
	return false
}
