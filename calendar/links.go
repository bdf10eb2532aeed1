// Package calendar turns a booked lesson into add-to-calendar links for the
// common providers.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Event is the payload derived from a booked lesson.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time
	Duration string
	// Address is "Online" for online lessons, else the street address.
	Address string
}

const stampLayout = "20060102T150405Z"

// Links generates provider-name to URL entries for the event. Pure function,
// no side effects.
func Links(ev Event) map[string]string {
	start := ev.Start.UTC().Format(stampLayout)
	end := ev.End.UTC().Format(stampLayout)

	google := url.Values{}
	google.Set("action", "TEMPLATE")
	google.Set("text", ev.Title)
	google.Set("dates", start+"/"+end)
	google.Set("location", ev.Address)

	outlook := url.Values{}
	outlook.Set("path", "/calendar/action/compose")
	outlook.Set("subject", ev.Title)
	outlook.Set("startdt", ev.Start.UTC().Format(time.RFC3339))
	outlook.Set("enddt", ev.End.UTC().Format(time.RFC3339))
	outlook.Set("location", ev.Address)

	yahoo := url.Values{}
	yahoo.Set("v", "60")
	yahoo.Set("title", ev.Title)
	yahoo.Set("st", start)
	yahoo.Set("et", end)
	yahoo.Set("in_loc", ev.Address)

	return map[string]string{
		"google":  "https://calendar.google.com/calendar/render?" + google.Encode(),
		"outlook": "https://outlook.live.com/calendar/0/deeplink/compose?" + outlook.Encode(),
		"yahoo":   "https://calendar.yahoo.com/?" + yahoo.Encode(),
		"ical":    "data:text/calendar;charset=utf-8," + url.PathEscape(ics(ev, start, end)),
	}
}

func ics(ev Event, start, end string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nBEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start)
	fmt.Fprintf(&b, "DTEND:%s\r\n", end)
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(ev.Title))
	fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICS(ev.Address))
	b.WriteString("END:VEVENT\r\nEND:VCALENDAR")
	return b.String()
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
