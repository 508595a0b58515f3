package calendar

import (
	"regexp"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	// DefaultTimezone is the tenant-facing timezone for all calendar math.
	DefaultTimezone = "Europe/Rome"
	// Default business-hours window, applied when a tenant has not
	// configured office hours.
	DefaultBusinessStart = 9
	DefaultBusinessEnd   = 18
	// SlotDuration is the fixed scheduling unit.
	SlotDuration = 30 * time.Minute
)

// Italian mobile/landline formats: optional +39 prefix, leading 0 or 3,
// two more digits, then 6-7 digits, with optional separators.
var phonePattern = regexp.MustCompile(`(\+39\s?)?[03]\d{2}[\s.\-]?\d{6,7}`)

// Marker substrings identifying events created by the AI booking flow.
var aiMarkers = []string{"avix", "ai booking", "prenotazione automatica", "bot"}

var romeLocation *time.Location

func init() {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.FixedZone("CET", 60*60)
	}
	romeLocation = loc
}

// Location returns the tenant-facing timezone.
func Location() *time.Location {
	return romeLocation
}

// GenerateDaySlots produces 30-minute-aligned slot start times from
// startHour to endHour on the given calendar day in loc. The first slot is
// at the window start; no slot starts at or after the window end.
func GenerateDaySlots(date time.Time, loc *time.Location, startHour, endHour int) []time.Time {
	day := date.In(loc)
	current := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, loc)

	var slots []time.Time
	for current.Before(end) {
		slots = append(slots, current)
		current = current.Add(SlotDuration)
	}
	return slots
}

// IsSlotFree reports whether no timed event overlaps [slotStart,
// slotStart+30m). Half-open intervals: touching boundaries count as free.
// Events without both a start and end instant (all-day entries) never
// conflict; in this domain they are non-blocking reminders.
func IsSlotFree(slotStart time.Time, events []*gcal.Event) bool {
	slotEnd := slotStart.Add(SlotDuration)

	for _, ev := range events {
		if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
			continue
		}
		evStart, err1 := time.Parse(time.RFC3339, ev.Start.DateTime)
		evEnd, err2 := time.Parse(time.RFC3339, ev.End.DateTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if slotStart.Before(evEnd) && slotEnd.After(evStart) {
			return false
		}
	}
	return true
}

// IsAIBooking classifies an event as created by the AI booking flow: the
// description contains a marker substring, or the creator/organizer email
// contains "avix" or "service".
func IsAIBooking(ev *gcal.Event) bool {
	description := strings.ToLower(ev.Description)
	for _, marker := range aiMarkers {
		if strings.Contains(description, marker) {
			return true
		}
	}

	var email string
	if ev.Creator != nil && ev.Creator.Email != "" {
		email = ev.Creator.Email
	} else if ev.Organizer != nil {
		email = ev.Organizer.Email
	}
	return strings.Contains(email, "avix") || strings.Contains(email, "service")
}

// ExtractPhone finds the first Italian phone number in an event description
// and returns it with separators stripped. Empty when none matches.
func ExtractPhone(description string) string {
	match := phonePattern.FindString(description)
	if match == "" {
		return ""
	}
	return strings.NewReplacer(" ", "", ".", "", "-", "").Replace(match)
}

// AttendeeName resolves a display name for an event: a named attendee's
// display name, else the local part of an attendee email, else the event
// title, else "Cliente".
func AttendeeName(ev *gcal.Event) string {
	for _, a := range ev.Attendees {
		if a.DisplayName != "" {
			return a.DisplayName
		}
		if a.Email != "" {
			return strings.SplitN(a.Email, "@", 2)[0]
		}
	}
	if ev.Summary != "" {
		return ev.Summary
	}
	return "Cliente"
}

// AttendeeEmail returns the first attendee email, empty when absent.
func AttendeeEmail(ev *gcal.Event) string {
	for _, a := range ev.Attendees {
		if a.Email != "" {
			return a.Email
		}
	}
	return ""
}

// NormalizePhone strips spaces, dashes and parentheses. No format is
// enforced beyond that; international formats must not be blocked.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseDate accepts YYYY-MM-DD or RFC3339 input and anchors it in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// eventInstant coerces a provider event time: dateTime, else the all-day
// date promoted to midnight, else now. The fallback to now on missing data
// is a leniency policy, not a data-integrity guarantee.
func eventInstant(edt *gcal.EventDateTime, loc *time.Location) time.Time {
	if edt != nil {
		if edt.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
				return t.In(loc)
			}
		}
		if edt.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", edt.Date, loc); err == nil {
				return t
			}
		}
	}
	return time.Now().In(loc)
}

func formatLocalDateTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
