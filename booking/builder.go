package booking

import (
	"errors"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrNoSelection is returned when a booking is submitted without a calendar
// selection. Handled locally by disabling submission, never shown as a toast.
var ErrNoSelection = errors.New("no time selection made")

// FormFields are the booking form values accompanying a calendar selection.
type FormFields struct {
	Subject    models.Subject
	Meet       models.MeetingMode
	Recurrent  bool
	Occurrence int
	// Location is the resolved street address; only meaningful for in-person
	// lessons.
	Location string
}

// CorrectedDurationHours returns the selection length in fractional hours.
// The 12-hour slot picker can hand over an inverted pair around the AM/PM
// rollover, which shows up as a negative diff; add 12 to bring it back into
// range. Display only: the wire duration stays uncorrected, the backend
// recomputes from absolute timestamps.
func CorrectedDurationHours(sel models.TimeRange) float64 {
	hours := sel.To.Sub(sel.From).Hours()
	if hours < 0 {
		hours += 12
	}
	return hours
}

// BuildRequest normalizes a calendar selection plus form fields into a
// transport-ready BookingRequest. Pure: no network or state side effects.
func BuildRequest(sel models.TimeRange, form FormFields, tutor, student models.User) (models.BookingRequest, error) {
	if sel.IsZero() {
		return models.BookingRequest{}, ErrNoSelection
	}

	minutes := sel.To.Sub(sel.From).Minutes()

	req := models.BookingRequest{
		TutorID:   tutor.ID,
		StudentID: student.ID,
		SubjectID: form.Subject.ID,
		When:      sel.From.UTC(),
		Duration:  models.FormatDurationMinutes(minutes),
		Meet:      form.Meet,
		Recurrent: form.Recurrent,
	}

	if form.Meet == models.MeetInPerson && form.Location != "" {
		req.Location = form.Location
	}

	if form.Recurrent {
		req.RecurrentCount = form.Occurrence
		if req.RecurrentCount == 0 {
			req.RecurrentCount = 1
		}
	}

	if err := validate.Struct(req); err != nil {
		return models.BookingRequest{}, err
	}
	return req, nil
}
