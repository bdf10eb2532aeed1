package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLessonNotification(t *testing.T) {
	student := uuid.New()
	tutor := uuid.New()
	subject := uuid.New()

	data, err := json.Marshal(map[string]any{
		"notification": map[string]any{
			"data": map[string]any{
				"lesson": map[string]any{
					"students": []uuid.UUID{student},
					"tutor":    tutor,
					"subject":  subject,
				},
			},
		},
	})
	require.NoError(t, err)

	n, ok := ParseLessonNotification(Event{Type: EventNotification, Data: data})
	require.True(t, ok)
	assert.True(t, n.Matches(student, tutor, subject))
	assert.False(t, n.Matches(uuid.New(), tutor, subject))
	assert.False(t, n.Matches(student, tutor, uuid.New()))
}

func TestParseLessonNotificationRejects(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{name: "wrong event type", ev: Event{Type: EventBookingPending, Data: json.RawMessage(`{}`)}},
		{name: "empty data", ev: Event{Type: EventNotification}},
		{name: "not a lesson notification", ev: Event{Type: EventNotification, Data: json.RawMessage(`{"notification":{"data":{"message":{}}}}`)}},
		{name: "malformed json", ev: Event{Type: EventNotification, Data: json.RawMessage(`{"notification":`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseLessonNotification(tt.ev)
			assert.False(t, ok)
		})
	}
}

func TestBus(t *testing.T) {
	bus := NewBus()

	var got []any
	cancel := bus.Subscribe(PanelOpenBooking, func(payload any) { got = append(got, payload) })

	bus.Emit(PanelOpenBooking, "tutor-a")
	bus.Emit(PanelOpenAddCard, "ignored")
	require.Len(t, got, 1)
	assert.Equal(t, "tutor-a", got[0])

	cancel()
	cancel() // safe to call twice
	bus.Emit(PanelOpenBooking, "tutor-b")
	assert.Len(t, got, 1)
}
