package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tutorID = uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff")

func TestGetUserAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/tutors/"+tutorID.String()+"/availability", r.URL.Path)
		assert.Equal(t, "America/New_York", r.URL.Query().Get("timezone"))

		json.NewEncoder(w).Encode(map[string]any{
			"slots": []map[string]any{
				{"from": "2024-01-10T14:00:00Z", "to": "2024-01-10T16:00:00Z", "occurence": 1},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sometoken")
	availability, err := c.GetUserAvailability(context.Background(), tutorID,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC),
		"America/New_York")
	require.NoError(t, err)

	require.Len(t, availability.Slots, 1)
	assert.Equal(t, 1, availability.Slots[0].Occurrence)
	// Missing timezone in the response falls back to the requested zone.
	assert.Equal(t, "America/New_York", availability.Timezone)
}

func TestCreateLessonSuccess(t *testing.T) {
	lessonID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/lessons", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "60m", req["duration"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":               lessonID,
			"tutor":            tutorID,
			"starts_at":        "2024-01-10T14:00:00Z",
			"ends_at":          "2024-01-10T15:00:00Z",
			"duration_minutes": 60,
			"meet":             2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sometoken")
	lesson, err := c.CreateLesson(context.Background(), models.BookingRequest{
		TutorID:   tutorID,
		StudentID: uuid.New(),
		SubjectID: uuid.New(),
		When:      time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		Duration:  "60m",
		Meet:      models.MeetOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, lessonID, lesson.ID)
	assert.True(t, lesson.Online())
}

func TestCreateLessonDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   "storage failure",
			"message": "storage failure",
			"raw":     map[string]any{"type": 4, "message": "insert failed"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CreateLesson(context.Background(), models.BookingRequest{})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Structured)
	require.True(t, apiErr.HasType())
	assert.Equal(t, ErrStorage, apiErr.Type())
	assert.Equal(t, "insert failed", apiErr.Raw.Message)
}

func TestCreateLessonTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CreateLesson(context.Background(), models.BookingRequest{})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.False(t, apiErr.Structured)
	assert.False(t, apiErr.HasType())
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestStructuredErrorWithoutType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   "bad proposal",
			"message": "tutor rejected it",
			"raw":     map[string]any{"message": "tutor rejected it"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.ProposeLessonChange(context.Background(), uuid.New(), models.LessonChange{})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Structured)
	assert.False(t, apiErr.HasType())
	assert.Equal(t, "tutor rejected it", apiErr.Message)
}

func TestGetLessons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		json.NewEncoder(w).Encode(map[string]any{
			"lessons": []map[string]any{
				{"id": uuid.New(), "starts_at": "2024-01-10T14:00:00Z", "ends_at": "2024-01-10T15:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	lessons, err := c.GetLessons(context.Background(),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
}
