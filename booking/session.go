package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TopTalentDev/tutor-booking/calendar"
	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/TopTalentDev/tutor-booking/notifications"
	"github.com/TopTalentDev/tutor-booking/realtime"
	"github.com/TopTalentDev/tutor-booking/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the slice of the marketplace API the booking session consumes.
// *api.Client satisfies it.
type Backend interface {
	GetUserAvailability(ctx context.Context, tutor uuid.UUID, from, to time.Time, timezone string) (models.Availability, error)
	GetLessons(ctx context.Context, from, to time.Time) ([]models.Lesson, error)
	CreateLesson(ctx context.Context, req models.BookingRequest) (models.Lesson, error)
	ProposeLessonChange(ctx context.Context, lessonID uuid.UUID, change models.LessonChange) (models.Lesson, error)
}

// State is the submission lifecycle of the current booking attempt. The
// create call alone decides Booked/Failed; the push confirmation only flips
// the auxiliary Confirmed flag.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateBooked
	StateFailed
)

// ErrPaymentCardRequired means the student has no payment card on file; the
// booking context was handed to the add-card panel over the bus.
var ErrPaymentCardRequired = errors.New("payment card required")

// ErrSessionClosed is returned by operations on a torn-down session.
var ErrSessionClosed = errors.New("booking session closed")

// Session owns one open booking widget: the loaded day, the user's selection,
// the in-flight submission and its confirmation listener. Not shared across
// widgets; Close releases the channel subscription exactly once.
type Session struct {
	backend  Backend
	channel  realtime.Channel
	bus      *realtime.Bus
	notifier notifications.Notifier
	logger   *zap.Logger

	tutor   models.User
	student models.User
	loc     *time.Location

	mu                sync.Mutex
	date              time.Time
	day               Day
	selection         *models.TimeRange
	form              FormFields
	eligibleRecurrent bool

	state          State
	loading        bool
	booked         bool
	confirmed      bool
	needsApproval  bool
	lesson         models.Lesson
	calendarLinks  map[string]string
	cancelListener func()
	closed         bool
}

// NewSession opens a booking session for the tutor on behalf of the student.
// It announces intent over the channel (advisory booking.pending) and
// defaults the form to the tutor's first subject, online.
func NewSession(backend Backend, channel realtime.Channel, bus *realtime.Bus, notifier notifications.Notifier, tutor, student models.User) *Session {
	loc, err := time.LoadLocation(student.Timezone)
	if err != nil || student.Timezone == "" {
		loc = time.UTC
	}

	s := &Session{
		backend:  backend,
		channel:  channel,
		bus:      bus,
		notifier: notifier,
		logger:   utils.GetLogger().Named("booking"),
		tutor:    tutor,
		student:  student,
		loc:      loc,
	}
	s.date = startOfDay(time.Now().In(loc))
	s.form = FormFields{Meet: models.MeetOnline}
	if len(tutor.Subjects) > 0 {
		s.form.Subject = tutor.Subjects[0].Subject
	}

	if err := channel.Send(realtime.EventBookingPending, realtime.BookingIntent{Tutor: tutor.ID}); err != nil {
		s.logger.Warn("could not announce pending booking", zap.Error(err))
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Date returns the currently displayed booking day (start of day, user tz).
func (s *Session) Date() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// Refresh loads the tutor's availability and the student's lessons for the
// displayed day. A day without availability is an empty slot set, not an
// error.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.loading = true
	from := s.date
	to := s.date.AddDate(0, 0, 1).Add(-time.Second)
	tutorID := s.tutor.ID
	s.mu.Unlock()

	availability, err := s.backend.GetUserAvailability(ctx, tutorID, from, to, s.loc.String())
	if err != nil {
		s.clearLoading()
		return err
	}
	lessons, err := s.backend.GetLessons(ctx, from, to)
	if err != nil {
		s.clearLoading()
		return err
	}
	if availability.Timezone == "" {
		availability.Timezone = s.loc.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.day = Day{Availability: availability, Lessons: lessons}
	if s.selection != nil {
		s.eligibleRecurrent = IsEligibleForRecurrence(*s.selection, availability)
	}
	s.loading = false
	return nil
}

// Advance moves the displayed day by days and months and refreshes. Stepping
// a month backward into the past snaps to today instead.
func (s *Session) Advance(ctx context.Context, days, months int) error {
	s.mu.Lock()
	now := time.Now().In(s.loc)
	candidate := s.date.AddDate(0, months, days)
	if months != 0 && candidate.Before(startOfDay(now)) {
		s.date = startOfDay(now)
	} else {
		s.date = candidate
	}
	s.selection = nil
	s.eligibleRecurrent = false
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// NextDay and PrevDay step the displayed day.
func (s *Session) NextDay(ctx context.Context) error { return s.Advance(ctx, 1, 0) }
func (s *Session) PrevDay(ctx context.Context) error { return s.Advance(ctx, -1, 0) }

// Select records the calendar selection and recomputes recurrence
// eligibility. A nil range clears the selection.
func (s *Session) Select(r *models.TimeRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.selection = nil
		s.eligibleRecurrent = false
		return
	}
	sel := *r
	s.selection = &sel
	s.eligibleRecurrent = IsEligibleForRecurrence(sel, s.day.Availability)
}

// SetForm replaces the booking form values.
func (s *Session) SetForm(form FormFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// EligibleForRecurrence reports whether the current selection can become a
// weekly recurring lesson.
func (s *Session) EligibleForRecurrence() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eligibleRecurrent
}

// SubmitDisabled mirrors the book-now button state: no selection, an
// in-person lesson without a resolved address, an incomplete form, or an
// in-flight submission all block submitting.
func (s *Session) SubmitDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil || s.loading {
		return true
	}
	if s.form.Meet == models.MeetInPerson && s.form.Location == "" {
		return true
	}
	return s.form.Subject.ID == uuid.Nil || s.form.Meet == 0
}

// Submit builds the booking request and runs it through the backend. The
// confirmation listener attaches before the create call so a fast server
// push cannot slip past it. The create call's outcome is authoritative:
// success marks the session booked and derives calendar links; failure is
// classified and surfaced as a toast, leaving the session ready for a retry.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.selection == nil {
		s.mu.Unlock()
		return ErrNoSelection
	}
	req, err := BuildRequest(*s.selection, s.form, s.tutor, s.student)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	subjectName := s.form.Subject.Name

	if !s.student.HasPaymentCard {
		date := s.date
		tutor := s.tutor
		s.mu.Unlock()
		s.bus.Emit(realtime.PanelGlobals, realtime.BookingContext{
			Date:    date,
			Subject: subjectName,
			Payload: req,
		})
		s.bus.Emit(realtime.PanelOpenAddCard, tutor)
		return ErrPaymentCardRequired
	}

	s.state = StateSubmitting
	s.loading = true
	s.mu.Unlock()

	events, cancel := s.channel.On(realtime.EventNotification)
	s.mu.Lock()
	prev := s.cancelListener
	s.cancelListener = cancel
	s.mu.Unlock()
	if prev != nil {
		// A retried attempt owns a fresh listener; drop the stale one.
		prev()
	}
	go s.watchConfirmation(events, cancel, req)

	lesson, err := s.backend.CreateLesson(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Torn down while the call was in flight; drop the outcome.
		return ErrSessionClosed
	}
	s.loading = false

	if err != nil {
		s.state = StateFailed
		title, message := bookingFailure(err, s.tutor)
		s.notifier.Notify(title, message, toastDismiss, toastLifetime)
		return err
	}

	s.state = StateBooked
	s.booked = true
	s.needsApproval = true
	s.lesson = lesson
	s.calendarLinks = calendar.Links(calendar.Event{
		Title:    fmt.Sprintf("%s class with %s", subjectName, s.tutor.ShortName()),
		Start:    lesson.StartsAt.UTC(),
		End:      lesson.EndsAt.UTC(),
		Duration: models.FormatDurationMinutes(float64(lesson.DurationMinutes)),
		Address:  lessonAddress(lesson),
	})
	return nil
}

func lessonAddress(l models.Lesson) string {
	if l.Online() {
		return "Online"
	}
	return l.Location
}

// watchConfirmation resolves the pending confirmation: the first notification
// whose lesson matches the request's (student, tutor, subject) triple flips
// the confirmed flag and releases the subscription. Events for other lessons
// are skipped, not consumed as matches.
func (s *Session) watchConfirmation(events <-chan realtime.Event, cancel func(), req models.BookingRequest) {
	for ev := range events {
		n, ok := realtime.ParseLessonNotification(ev)
		if !ok {
			continue
		}
		if !n.Matches(req.StudentID, req.TutorID, req.SubjectID) {
			continue
		}
		s.mu.Lock()
		if !s.closed {
			s.confirmed = true
		}
		s.mu.Unlock()
		cancel()
		return
	}
}

// ProposeChange sends a change proposal for the session's booked lesson.
func (s *Session) ProposeChange(ctx context.Context, change models.LessonChange) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	lessonID := s.lesson.ID
	s.loading = true
	s.mu.Unlock()

	lesson, err := s.backend.ProposeLessonChange(ctx, lessonID, change)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.loading = false

	if err != nil {
		title, message := changeFailure(err, s.tutor)
		s.notifier.Notify(title, message, toastDismiss, toastLifetime)
		return err
	}
	s.lesson = lesson
	s.booked = true
	s.needsApproval = false
	return nil
}

// HandleTutorUpdate reacts to a mid-booking tutor profile change: losing
// in-person availability or the chosen subject drops the user back to the
// edit step with an explanatory toast.
func (s *Session) HandleTutorUpdate(updated models.User) {
	s.mu.Lock()
	form := s.form
	s.tutor = updated
	s.mu.Unlock()

	if form.Meet == models.MeetInPerson && !updated.CanMeetInPerson {
		s.notifier.Notify(
			"Tutor just updated profile",
			fmt.Sprintf("%s is available for the moment only online. Please retry the booking process.", updated.ShortName()),
			"", toastLifetime)
		s.BackToEdit()
	}

	if form.Subject.ID != uuid.Nil && !updated.Teaches(form.Subject.ID) {
		s.notifier.Notify(
			"Tutor just updated profile",
			fmt.Sprintf("%s no longer have subject %s for tutoring.", updated.ShortName(), form.Subject.Name),
			"", toastLifetime)
		s.BackToEdit()
	}
}

// BackToEdit resets submission progress so the form can be corrected.
func (s *Session) BackToEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.state = StateIdle
}

// Close tears the session down: announces booking.cancel and releases the
// confirmation subscription. Outcomes arriving after Close are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancelListener
	s.cancelListener = nil
	tutorID := s.tutor.ID
	s.mu.Unlock()

	if err := s.channel.Send(realtime.EventBookingCancel, realtime.BookingIntent{Tutor: tutorID}); err != nil {
		s.logger.Debug("could not announce booking cancel", zap.Error(err))
	}
	if cancel != nil {
		cancel()
	}
}

// State returns the submission lifecycle of the current attempt.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Booked reports whether the create call succeeded.
func (s *Session) Booked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booked
}

// Confirmed reports whether the push channel delivered a matching
// confirmation. Booked lessons may legitimately never confirm.
func (s *Session) Confirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed
}

// Loading reports whether a fetch or submission is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// NeedsApproval reports whether the booked lesson still awaits the tutor's
// acceptance.
func (s *Session) NeedsApproval() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsApproval
}

// Lesson returns the canonical lesson record once booked.
func (s *Session) Lesson() models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lesson
}

// Day returns the loaded day view.
func (s *Session) Day() Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// CalendarLinks returns the add-to-calendar URLs derived from the booked
// lesson, nil before booking.
func (s *Session) CalendarLinks() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calendarLinks
}

func (s *Session) clearLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}
