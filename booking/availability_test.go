package booking

import (
	"testing"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/stretchr/testify/assert"
)

func day(hour, minute int) time.Time {
	return time.Date(2024, 1, 10, hour, minute, 0, 0, time.UTC)
}

func TestIsEligibleForRecurrence(t *testing.T) {
	recurring := models.AvailabilitySlot{From: day(14, 0), To: day(16, 0), Occurrence: 1}
	single := models.AvailabilitySlot{From: day(9, 0), To: day(12, 0), Occurrence: 3}

	tests := []struct {
		name  string
		r     models.TimeRange
		slots []models.AvailabilitySlot
		want  bool
	}{
		{
			name:  "zero slots",
			r:     models.TimeRange{From: day(14, 0), To: day(15, 0)},
			slots: nil,
			want:  false,
		},
		{
			name:  "contained in recurring slot",
			r:     models.TimeRange{From: day(14, 0), To: day(15, 0)},
			slots: []models.AvailabilitySlot{recurring},
			want:  true,
		},
		{
			name:  "starts before slot",
			r:     models.TimeRange{From: day(13, 0), To: day(15, 0)},
			slots: []models.AvailabilitySlot{recurring},
			want:  false,
		},
		{
			name:  "contained but slot is single occurrence",
			r:     models.TimeRange{From: day(10, 0), To: day(11, 0)},
			slots: []models.AvailabilitySlot{single},
			want:  false,
		},
		{
			name:  "single-occurrence slot contains it, later recurring slot does too",
			r:     models.TimeRange{From: day(14, 0), To: day(15, 0)},
			slots: []models.AvailabilitySlot{{From: day(13, 0), To: day(17, 0), Occurrence: 2}, recurring},
			want:  true,
		},
		{
			name:  "hour granularity ignores minutes",
			r:     models.TimeRange{From: day(14, 15), To: day(15, 45)},
			slots: []models.AvailabilitySlot{{From: day(14, 30), To: day(15, 0), Occurrence: 1}},
			want:  true,
		},
		{
			name:  "spans two slots with no single container",
			r:     models.TimeRange{From: day(10, 0), To: day(15, 0)},
			slots: []models.AvailabilitySlot{single, recurring},
			want:  false,
		},
		{
			name:  "degenerate range at a contained instant",
			r:     models.TimeRange{From: day(15, 0), To: day(15, 0)},
			slots: []models.AvailabilitySlot{recurring},
			want:  true,
		},
		{
			name:  "missing endpoint",
			r:     models.TimeRange{From: day(14, 0)},
			slots: []models.AvailabilitySlot{recurring},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability := models.Availability{Slots: tt.slots, Timezone: "UTC"}
			assert.Equal(t, tt.want, IsEligibleForRecurrence(tt.r, availability))
		})
	}
}

func TestOverlaps(t *testing.T) {
	availability := models.Availability{
		Slots: []models.AvailabilitySlot{
			{From: day(9, 0), To: day(12, 0), Occurrence: 3},
			{From: day(10, 0), To: day(11, 0), Occurrence: 1},
			{From: day(14, 0), To: day(16, 0), Occurrence: 1},
		},
		Timezone: "UTC",
	}

	got := availability.Overlaps(models.TimeRange{From: day(10, 0), To: day(11, 0)})
	assert.Len(t, got, 2)
	// Insertion order is preserved.
	assert.Equal(t, day(9, 0), got[0].From)
	assert.Equal(t, day(10, 0), got[1].From)

	assert.Empty(t, availability.Overlaps(models.TimeRange{From: day(7, 0), To: day(8, 0)}))
}

func TestAllowsRecurrence(t *testing.T) {
	assert.True(t, AllowsRecurrence(models.AvailabilitySlot{Occurrence: 1}))
	assert.False(t, AllowsRecurrence(models.AvailabilitySlot{Occurrence: 0}))
	assert.False(t, AllowsRecurrence(models.AvailabilitySlot{Occurrence: 3}))
}
