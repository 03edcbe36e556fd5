// Package ics renders one slot as an iCalendar invite. Pure formatting:
// no persistence, no network, same input always gives the same bytes.
package ics

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/interviewd/internal/models"
)

const (
	prodID     = "-//hireloop//interviewd//EN"
	timeLayout = "20060102T150405Z"
)

// Render produces a single-VEVENT calendar for the slot. The UID is a
// SHA1 UUID of the slot id, so re-exports of one slot always carry the
// same identity and calendars update in place instead of duplicating.
func Render(slot models.InterviewSlot, jobTitle string) []byte {
	uid := uuid.NewSHA1(uuid.NameSpaceOID, []byte(slot.ID))

	start := time.UnixMilli(slot.StartsAt).UTC()
	end := time.UnixMilli(slot.EndsAt).UTC()

	var b bytes.Buffer
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + prodID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:REQUEST")
	line("BEGIN:VEVENT")
	line("UID:" + uid.String())
	line("DTSTAMP:" + start.Format(timeLayout))
	line("DTSTART:" + start.Format(timeLayout))
	line("DTEND:" + end.Format(timeLayout))
	line("SUMMARY:" + Escape("Interview: "+jobTitle))
	line("LOCATION:" + Escape(slot.Location))
	if slot.MeetingLink != "" {
		line("DESCRIPTION:" + Escape("Join: "+slot.MeetingLink))
	}
	line("END:VEVENT")
	line("END:VCALENDAR")

	return b.Bytes()
}

// Escape applies RFC 5545 text escaping: backslash, comma, semicolon
// and newline.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ',':
			b.WriteString(`\,`)
		case ';':
			b.WriteString(`\;`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// stripped; bare CR has no text form
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
