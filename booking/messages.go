package booking

import (
	"fmt"
	"time"

	"github.com/TopTalentDev/tutor-booking/api"
	"github.com/TopTalentDev/tutor-booking/models"
)

const (
	toastLifetime = 10 * time.Second
	toastDismiss  = "close"
)

// bookingFailure maps a create-lesson error to the toast shown to the user.
// Unstructured errors and rejections without a raw type code all collapse to
// the generic message.
func bookingFailure(err error, tutor models.User) (title, message string) {
	message = fmt.Sprintf("Encountered an issue while booking a lesson with %s.", tutor.FirstName)

	apiErr, ok := api.AsError(err)
	if !ok || !apiErr.HasType() {
		return "Error booking a lesson", message
	}

	switch apiErr.Type() {
	case api.ErrInvalidUser:
		message = "Specified user is invalid, please make sure you filled the form correctly and try again later."
	case api.ErrInvalidRole:
		message = "Specified user is pending, please make sure you filled the form correctly and try again later."
	case api.ErrInvalidSubject:
		message = "Specified subject does not exist, please try again later."
	case api.ErrInvalidTime:
		message = fmt.Sprintf("Encountered an issue related to the selected time: %s.", apiErr.Raw.Message)
	case api.ErrStorage:
		message = "We couldn't store the lesson in the database. Please try again later. If it happens again, contact us immediately."
	default:
		message = fmt.Sprintf("Received an unknown error while booking a lesson with %s.", tutor.FirstName)
	}
	return "Couldn't book the lesson", message
}

// changeFailure maps a propose-lesson-change error to its toast. Unlike the
// booking flow, a structured rejection without a type code still surfaces the
// server's own message.
func changeFailure(err error, tutor models.User) (title, message string) {
	apiErr, ok := api.AsError(err)
	if !ok || !apiErr.Structured {
		return "Error requesting a lesson change", "Encountered an issue while requesting a lesson change."
	}
	if !apiErr.HasType() {
		return "Error requesting a lesson change",
			fmt.Sprintf("We couldn't request the lesson change: %s.", apiErr.Message)
	}

	switch apiErr.Type() {
	case api.ErrInvalidUser:
		message = "Specified user is invalid, please make sure you filled the form correctly and try again later."
	case api.ErrInvalidTime:
		message = fmt.Sprintf("Encountered an issue related to the selected time: %s.", apiErr.Raw.Message)
	case api.ErrInvalidProposal:
		message = fmt.Sprintf("We couldn't request the lesson change: %s", apiErr.Raw.Message)
	default:
		message = fmt.Sprintf("Received an unknown error while requesting a lesson change with %s.", tutor.FirstName)
	}
	return "Couldn't request the lesson change", message
}
