package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinks(t *testing.T) {
	ev := Event{
		Title:    "Algebra class with Alice B.",
		Start:    time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
		Duration: "60m",
		Address:  "Online",
	}

	links := Links(ev)
	for _, provider := range []string{"google", "outlook", "yahoo", "ical"} {
		require.Contains(t, links, provider)
	}

	assert.Contains(t, links["google"], "20240110T140000Z%2F20240110T150000Z")
	assert.Contains(t, links["google"], "location=Online")
	assert.Contains(t, links["ical"], "SUMMARY:Algebra")
}

func TestLinksEscapesICS(t *testing.T) {
	links := Links(Event{
		Title:   "Chemistry, advanced; week 1",
		Start:   time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
		Address: "5th Avenue 12, New York",
	})

	ical := links["ical"]
	assert.NotContains(t, ical, "SUMMARY:Chemistry, advanced")
	assert.Contains(t, ical, `Chemistry%5C%2C%20advanced%5C%3B%20week%201`)
}
