package calendar

import (
	"time"

	"avix/models"

	gcal "google.golang.org/api/calendar/v3"
)

// Synthetic fixtures for demo tenants. Shapes mirror what the live
// pipeline produces so the dashboard renders identically.

func mockEnrichedEvents(timeMin, timeMax time.Time) []models.EnrichedEvent {
	loc := Location()
	base := time.Now().In(loc)
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, loc)

	callID := "mock-call-1"
	seeds := []models.EnrichedEvent{
		{
			ID:            "mock-evt-1",
			GoogleEventID: "mock-evt-1",
			Title:         "Mario Rossi (AI)",
			Start:         day.Add(10 * time.Hour),
			End:           day.Add(10*time.Hour + SlotDuration),
			AttendeeName:  "Mario Rossi",
			AttendeePhone: "+393331234567",
			Description:   "Prenotazione automatica Avix AI\nCliente: Mario Rossi\nTelefono: +393331234567",
			IsAIBooking:   true,
			CallID:        &callID,
			CallSummary:   "Richiesta appuntamento per consulenza.",
			CallSentiment: models.SentimentPositive,
			CallDuration:  95,
		},
		{
			ID:            "mock-evt-2",
			GoogleEventID: "mock-evt-2",
			Title:         "Riunione interna",
			Start:         day.Add(14 * time.Hour),
			End:           day.Add(15 * time.Hour),
			AttendeeName:  "Riunione interna",
			IsAIBooking:   false,
		},
		{
			ID:            "mock-evt-3",
			GoogleEventID: "mock-evt-3",
			Title:         "Lucia Bianchi (AI)",
			Start:         day.Add(24*time.Hour + 11*time.Hour),
			End:           day.Add(24*time.Hour + 11*time.Hour + SlotDuration),
			AttendeeName:  "Lucia Bianchi",
			AttendeePhone: "3337654321",
			Description:   "Prenotazione automatica Avix AI\nCliente: Lucia Bianchi\nTelefono: 333 765 4321",
			IsAIBooking:   true,
		},
	}

	out := make([]models.EnrichedEvent, 0, len(seeds))
	for _, ev := range seeds {
		if ev.Start.Before(timeMax) && ev.End.After(timeMin) {
			out = append(out, ev)
		}
	}
	return out
}

// mockDayEvents blocks two mid-day slots so the availability tool returns
// a believable, non-full schedule.
func mockDayEvents(date time.Time, loc *time.Location) []*gcal.Event {
	day := date.In(loc)
	at := func(hour, minute int) string {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc).Format(time.RFC3339)
	}
	return []*gcal.Event{
		{
			Id:      "mock-busy-1",
			Summary: "Mario Rossi (AI)",
			Start:   &gcal.EventDateTime{DateTime: at(10, 0)},
			End:     &gcal.EventDateTime{DateTime: at(10, 30)},
		},
		{
			Id:      "mock-busy-2",
			Summary: "Riunione interna",
			Start:   &gcal.EventDateTime{DateTime: at(14, 0)},
			End:     &gcal.EventDateTime{DateTime: at(15, 0)},
		},
	}
}
