package booking

import (
	"testing"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTutor   = models.User{ID: uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff"), FirstName: "Alice", LastName: "Brown"}
	testStudent = models.User{ID: uuid.MustParse("886313e1-3b8a-5372-9b90-0c9aee199e5d"), FirstName: "Bob", HasPaymentCard: true}
	algebra     = models.Subject{ID: uuid.MustParse("91f46ca2-9d63-42a1-bb4b-0ea7e3f58ee1"), Name: "Algebra"}
)

func TestCorrectedDurationHours(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want float64
	}{
		{name: "plain hour", from: day(14, 0), to: day(15, 0), want: 1},
		{name: "fractional", from: day(14, 0), to: day(15, 30), want: 1.5},
		// The 12-hour picker can hand over an inverted pair around noon; the
		// raw diff goes negative and gets 12 added back.
		{name: "am/pm rollover", from: day(11, 30), to: day(0, 30), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := models.TimeRange{From: tt.from, To: tt.to}
			raw := tt.to.Sub(tt.from).Hours()
			got := CorrectedDurationHours(sel)
			assert.InDelta(t, tt.want, got, 1e-9)
			if raw < 0 {
				assert.InDelta(t, raw+12, got, 1e-9)
			}
		})
	}
}

func TestBuildRequest(t *testing.T) {
	sel := models.TimeRange{From: day(14, 0), To: day(15, 30)}

	t.Run("online lesson", func(t *testing.T) {
		req, err := BuildRequest(sel, FormFields{Subject: algebra, Meet: models.MeetOnline}, testTutor, testStudent)
		require.NoError(t, err)

		assert.Equal(t, testTutor.ID, req.TutorID)
		assert.Equal(t, testStudent.ID, req.StudentID)
		assert.Equal(t, algebra.ID, req.SubjectID)
		assert.Equal(t, sel.From.UTC(), req.When)
		assert.Equal(t, "90m", req.Duration)
		assert.Equal(t, models.MeetOnline, req.Meet)
		assert.Empty(t, req.Location)
		assert.Zero(t, req.RecurrentCount)
	})

	t.Run("online never carries a location", func(t *testing.T) {
		req, err := BuildRequest(sel, FormFields{Subject: algebra, Meet: models.MeetOnline, Location: "5th Avenue 12"}, testTutor, testStudent)
		require.NoError(t, err)
		assert.Empty(t, req.Location)
	})

	t.Run("in person with resolved address", func(t *testing.T) {
		req, err := BuildRequest(sel, FormFields{Subject: algebra, Meet: models.MeetInPerson, Location: "5th Avenue 12"}, testTutor, testStudent)
		require.NoError(t, err)
		assert.Equal(t, "5th Avenue 12", req.Location)
	})

	t.Run("recurrent with explicit occurrence", func(t *testing.T) {
		req, err := BuildRequest(sel, FormFields{Subject: algebra, Meet: models.MeetOnline, Recurrent: true, Occurrence: 10}, testTutor, testStudent)
		require.NoError(t, err)
		assert.True(t, req.Recurrent)
		assert.Equal(t, 10, req.RecurrentCount)
	})

	t.Run("recurrent defaults to one occurrence", func(t *testing.T) {
		req, err := BuildRequest(sel, FormFields{Subject: algebra, Meet: models.MeetOnline, Recurrent: true}, testTutor, testStudent)
		require.NoError(t, err)
		assert.Equal(t, 1, req.RecurrentCount)
	})

	t.Run("wire duration stays uncorrected on rollover", func(t *testing.T) {
		inverted := models.TimeRange{From: day(11, 30), To: day(0, 30)}
		req, err := BuildRequest(inverted, FormFields{Subject: algebra, Meet: models.MeetOnline}, testTutor, testStudent)
		require.NoError(t, err)
		// -11h raw; display correction never touches the request payload.
		assert.Equal(t, "-660m", req.Duration)
	})

	t.Run("missing selection", func(t *testing.T) {
		_, err := BuildRequest(models.TimeRange{}, FormFields{Subject: algebra, Meet: models.MeetOnline}, testTutor, testStudent)
		assert.ErrorIs(t, err, ErrNoSelection)
	})
}
