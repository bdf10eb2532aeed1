package stub

import (
	"strconv"
	"strings"
	"time"

	config "github.com/TopTalentDev/tutor-booking/configs"
	"github.com/TopTalentDev/tutor-booking/middleware"
	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/TopTalentDev/tutor-booking/realtime"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// Domain rejection codes, mirrored by api.ErrorType on the client side.
const (
	errInvalidUser     = 0
	errInvalidRole     = 1
	errInvalidSubject  = 2
	errInvalidTime     = 3
	errStorage         = 4
	errInvalidProposal = 5
)

type Handlers struct {
	store *Store
	hub   *Hub
}

// domainError renders the structured rejection envelope the client decodes:
// the outer "error" key marks the body as structured, raw carries the code.
func domainError(c *fiber.Ctx, status, errType int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   message,
		"message": message,
		"raw":     fiber.Map{"type": errType, "message": message},
	})
}

// IssueToken hands out a signed development token for the given seeded user.
// Convenience only; the real marketplace has a proper login flow.
func (h *Handlers) IssueToken(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var user UserRecord
	if err := h.store.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not sign token"})
	}

	return c.JSON(fiber.Map{"token": signed})
}

// GetTutorAvailability returns the tutor's slots in the requested window.
// No availability resolves to an empty slot list, not an error.
func (h *Handlers) GetTutorAvailability(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}
	from, to, err := parseWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slots, err := h.store.SlotsBetween(tutorID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load availability"})
	}

	availability := models.Availability{
		Slots:    make([]models.AvailabilitySlot, 0, len(slots)),
		Timezone: c.Query("timezone", "UTC"),
	}
	for _, s := range slots {
		availability.Slots = append(availability.Slots, models.AvailabilitySlot{
			From:       s.StartTime,
			To:         s.EndTime,
			Occurrence: s.Occurrence,
		})
	}
	return c.JSON(availability)
}

// GetLessons returns the authenticated user's lessons in the window.
func (h *Handlers) GetLessons(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	from, to, err := parseWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := h.store.LessonsBetween(userID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load lessons"})
	}

	lessons := make([]models.Lesson, 0, len(records))
	for _, rec := range records {
		lessons = append(lessons, wireLesson(rec))
	}
	return c.JSON(fiber.Map{"lessons": lessons})
}

type createLessonRequest struct {
	Tutor          string `json:"tutor" validate:"required,uuid"`
	Student        string `json:"student" validate:"required,uuid"`
	Subject        string `json:"subject" validate:"required,uuid"`
	When           string `json:"when" validate:"required"`
	Duration       string `json:"duration" validate:"required"`
	Meet           int    `json:"meet" validate:"oneof=2 4"`
	Recurrent      bool   `json:"recurrent"`
	Location       string `json:"location"`
	RecurrentCount int    `json:"recurrent_count"`
}

// CreateLesson accepts a booking request, walking the same rejection ladder
// as the marketplace: user, role, subject, time, storage.
func (h *Handlers) CreateLesson(c *fiber.Ctx) error {
	authUserID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return domainError(c, fiber.StatusBadRequest, errInvalidUser, err.Error())
	}

	studentID, _ := uuid.Parse(req.Student)
	tutorID, _ := uuid.Parse(req.Tutor)
	subjectID, _ := uuid.Parse(req.Subject)

	if studentID != authUserID {
		return domainError(c, fiber.StatusForbidden, errInvalidUser, "student does not match the authenticated user")
	}

	var student UserRecord
	if err := h.store.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return domainError(c, fiber.StatusBadRequest, errInvalidUser, "student does not exist")
	}
	if student.Role == "pending" {
		return domainError(c, fiber.StatusBadRequest, errInvalidRole, "user account is pending approval")
	}
	var tutor UserRecord
	if err := h.store.DB.First(&tutor, "id = ? AND role = ?", tutorID, "tutor").Error; err != nil {
		return domainError(c, fiber.StatusBadRequest, errInvalidUser, "tutor does not exist")
	}

	var teaches int64
	h.store.DB.Model(&TutorSubjectRecord{}).
		Where("tutor_id = ? AND subject_id = ?", tutorID, subjectID).
		Count(&teaches)
	if teaches == 0 {
		return domainError(c, fiber.StatusBadRequest, errInvalidSubject, "tutor does not teach this subject")
	}

	when, err := time.Parse(time.RFC3339, req.When)
	if err != nil {
		return domainError(c, fiber.StatusBadRequest, errInvalidTime, "when is not a valid timestamp")
	}
	minutes, err := parseDurationMinutes(req.Duration)
	if err != nil || minutes <= 0 {
		return domainError(c, fiber.StatusBadRequest, errInvalidTime, "duration is not valid")
	}
	ends := when.Add(time.Duration(minutes * float64(time.Minute)))

	if when.Before(time.Now()) {
		return domainError(c, fiber.StatusBadRequest, errInvalidTime, "lesson cannot start in the past")
	}

	slots, err := h.store.SlotsBetween(tutorID, when, ends)
	if err != nil {
		return domainError(c, fiber.StatusInternalServerError, errStorage, "could not verify availability")
	}
	inSlot := false
	for _, s := range slots {
		if !when.Before(s.StartTime) && !ends.After(s.EndTime) {
			inSlot = true
			break
		}
	}
	if !inSlot {
		return domainError(c, fiber.StatusBadRequest, errInvalidTime, "tutor is not available at the selected time")
	}

	var overlapping int64
	h.store.DB.Model(&LessonRecord{}).
		Where("tutor_id = ? AND starts_at < ? AND ends_at > ?", tutorID, ends, when).
		Count(&overlapping)
	if overlapping > 0 {
		return domainError(c, fiber.StatusConflict, errInvalidTime, "tutor already has a lesson at the selected time")
	}

	rec := LessonRecord{
		ID:              uuid.New(),
		TutorID:         tutorID,
		StudentID:       studentID,
		SubjectID:       subjectID,
		StartsAt:        when,
		EndsAt:          ends,
		DurationMinutes: int(minutes),
		Meet:            req.Meet,
		Location:        req.Location,
		RecurrentCount:  req.RecurrentCount,
		Status:          "pending",
	}
	if err := h.store.DB.Create(&rec).Error; err != nil {
		return domainError(c, fiber.StatusInternalServerError, errStorage, "could not store the lesson")
	}

	h.hub.Push([]uuid.UUID{studentID, tutorID}, realtime.EventNotification, fiber.Map{
		"notification": fiber.Map{
			"data": fiber.Map{
				"lesson": fiber.Map{
					"students": []uuid.UUID{studentID},
					"tutor":    tutorID,
					"subject":  subjectID,
				},
			},
		},
	})

	return c.Status(fiber.StatusCreated).JSON(wireLesson(rec))
}

type changeLessonRequest struct {
	Subject  string `json:"subject"`
	Meet     int    `json:"meet"`
	Location string `json:"location"`
	When     string `json:"when"`
	Ends     string `json:"ends"`
}

// ProposeLessonChange records a partial change proposal against a lesson.
func (h *Handlers) ProposeLessonChange(c *fiber.Ctx) error {
	authUserID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	lessonID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}

	var req changeLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var rec LessonRecord
	if err := h.store.DB.First(&rec, "id = ?", lessonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainError(c, fiber.StatusNotFound, errInvalidProposal, "the lesson no longer exists")
		}
		return domainError(c, fiber.StatusInternalServerError, errInvalidProposal, "could not load the lesson")
	}
	if rec.StudentID != authUserID && rec.TutorID != authUserID {
		return domainError(c, fiber.StatusForbidden, errInvalidUser, "you are not a participant of this lesson")
	}

	if req.When != "" {
		when, err := time.Parse(time.RFC3339, req.When)
		if err != nil {
			return domainError(c, fiber.StatusBadRequest, errInvalidTime, "when is not a valid timestamp")
		}
		if when.Before(time.Now()) {
			return domainError(c, fiber.StatusBadRequest, errInvalidTime, "proposed time cannot be in the past")
		}
		rec.ProposedStartTime = &when
		if req.Ends != "" {
			ends, err := time.Parse(time.RFC3339, req.Ends)
			if err != nil || !ends.After(when) {
				return domainError(c, fiber.StatusBadRequest, errInvalidProposal, "proposed end must follow the proposed start")
			}
			rec.ProposedEndTime = &ends
		}
	}
	if req.Subject != "" {
		subjectID, err := uuid.Parse(req.Subject)
		if err != nil {
			return domainError(c, fiber.StatusBadRequest, errInvalidProposal, "subject is not a valid id")
		}
		rec.SubjectID = subjectID
	}
	if req.Meet != 0 {
		rec.Meet = req.Meet
	}
	if req.Location != "" {
		rec.Location = req.Location
	}
	rec.Status = "reschedule_requested"

	if err := h.store.DB.Save(&rec).Error; err != nil {
		return domainError(c, fiber.StatusInternalServerError, errInvalidProposal, "could not store the proposal")
	}
	return c.JSON(wireLesson(rec))
}

func wireLesson(rec LessonRecord) models.Lesson {
	return models.Lesson{
		ID:              rec.ID,
		TutorID:         rec.TutorID,
		StudentID:       rec.StudentID,
		SubjectID:       rec.SubjectID,
		StartsAt:        rec.StartsAt,
		EndsAt:          rec.EndsAt,
		DurationMinutes: rec.DurationMinutes,
		Meet:            models.MeetingMode(rec.Meet),
		Location:        rec.Location,
		RecurrentCount:  rec.RecurrentCount,
	}
}

func parseWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from is not a valid timestamp")
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to is not a valid timestamp")
	}
	return from, to, nil
}

// parseDurationMinutes reads the backend's "<minutes>m" duration format.
func parseDurationMinutes(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "m"), 64)
}
