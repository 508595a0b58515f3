package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	settingsRepo "avix/database/repository/settings"
	"avix/models"
	"avix/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
)

// acquireForTenant loads the tenant's credentials and returns a provider
// bound to a freshly refreshed access token. The refreshed token is written
// back before the provider is used; losing it only costs an extra refresh
// on the next request, so a failed write is logged rather than fatal.
func (s *DefaultCalendarService) acquireForTenant(ctx context.Context, tenantID string) (*models.Settings, Provider, error) {
	st, err := s.Settings.GetByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrNotFound) {
			return nil, nil, NewError(CodeSettingsNotFound, "no settings row for tenant")
		}
		return nil, nil, NewError(CodeFetchError, "settings lookup failed: "+err.Error())
	}

	if !st.CalendarConnected || st.GoogleRefreshToken == nil || strings.TrimSpace(*st.GoogleRefreshToken) == "" {
		return nil, nil, NewError(CodeNotConfigured, "calendar not connected")
	}

	var accessHint string
	if st.GoogleAccessToken != nil {
		accessHint = *st.GoogleAccessToken
	}

	provider, refreshed, err := s.Tokens.AcquireClient(ctx, strings.TrimSpace(*st.GoogleRefreshToken), accessHint)
	if err != nil {
		return nil, nil, err
	}

	if refreshed != "" {
		if err := s.Settings.UpdateAccessToken(ctx, st.ID, refreshed); err != nil {
			utils.GetLogger().Warn("failed to persist refreshed access token",
				zap.String("tenantID", tenantID), zap.Error(err))
		}
	}

	return st, provider, nil
}

func calendarIDOf(st *models.Settings) string {
	if st.GoogleCalendarID != nil {
		if id := strings.TrimSpace(*st.GoogleCalendarID); id != "" {
			return id
		}
	}
	return "primary"
}

// FetchEnrichedEvents returns the tenant's events in [timeMin, timeMax),
// classified and cross-referenced against the tenant's call log.
func (s *DefaultCalendarService) FetchEnrichedEvents(ctx context.Context, tenantID string, timeMin, timeMax time.Time) ([]models.EnrichedEvent, error) {
	if s.MockData {
		return mockEnrichedEvents(timeMin, timeMax), nil
	}

	_, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// The dashboard always reads the primary calendar; configured ids are
	// only honored on the booking path, where mismatched ids showed up as
	// ghost availability.
	events, err := provider.ListEvents(ctx, "primary", timeMin, timeMax)
	if err != nil {
		return nil, err
	}

	calls, err := s.Calls.ListByTenant(ctx, tenantID)
	if err != nil {
		utils.GetLogger().Warn("call list failed, events served without call metadata",
			zap.String("tenantID", tenantID), zap.Error(err))
		calls = nil
	}

	loc := Location()
	enriched := make([]models.EnrichedEvent, 0, len(events))
	for _, ev := range events {
		phone := ExtractPhone(ev.Description)
		email := AttendeeEmail(ev)

		out := models.EnrichedEvent{
			ID:            ev.Id,
			GoogleEventID: ev.Id,
			Title:         titleOrDefault(ev),
			Start:         eventInstant(ev.Start, loc),
			End:           eventInstant(ev.End, loc),
			AttendeeName:  AttendeeName(ev),
			AttendeeEmail: email,
			AttendeePhone: phone,
			Description:   ev.Description,
			IsAIBooking:   IsAIBooking(ev),
		}

		if matched := matchCall(calls, phone, email); matched != nil {
			out.CallID = &matched.ID
			out.CallSummary = matched.Summary
			out.CallSentiment = matched.Sentiment
			out.CallRecordingURL = matched.RecordingURL
			out.CallDuration = matched.Duration
			out.CallTranscript = matched.Transcript
			out.CallTranscriptJSON = matched.TranscriptJSON
		}

		enriched = append(enriched, out)
	}

	return enriched, nil
}

func titleOrDefault(ev *gcal.Event) string {
	if ev.Summary != "" {
		return ev.Summary
	}
	return "Evento"
}

// matchCall attaches a call to an event: phone containment in either
// direction on normalized digits, else case-insensitive attendee email in
// the call summary. First match wins; no tie-break beyond store order.
func matchCall(calls []models.Call, phone, email string) *models.Call {
	if phone != "" {
		for i := range calls {
			number := calls[i].CustomerNumber
			if number == "" {
				continue
			}
			if strings.Contains(NormalizePhone(number), phone) || strings.Contains(phone, digitsOnly(number)) {
				return &calls[i]
			}
		}
	}

	if email != "" {
		lower := strings.ToLower(email)
		for i := range calls {
			if calls[i].Summary != "" && strings.Contains(strings.ToLower(calls[i].Summary), lower) {
				return &calls[i]
			}
		}
	}

	return nil
}

// CreateEvent inserts a manual (non-AI) event from the dashboard.
func (s *DefaultCalendarService) CreateEvent(ctx context.Context, tenantID string, input models.EventInput) (*models.EnrichedEvent, error) {
	st, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start, err1 := time.Parse(time.RFC3339, input.Start)
	end, err2 := time.Parse(time.RFC3339, input.End)
	if input.Title == "" || err1 != nil || err2 != nil {
		return nil, NewError(CodeFetchError, "missing or invalid title/start/end")
	}

	event := &gcal.Event{
		Summary:     utils.SanitizeString(input.Title),
		Description: utils.SanitizeString(input.Description),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: DefaultTimezone},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: DefaultTimezone},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: 30},
			},
		},
	}

	created, err := provider.InsertEvent(ctx, calendarIDOf(st), event)
	if err != nil {
		return nil, err
	}

	loc := Location()
	return &models.EnrichedEvent{
		ID:            created.Id,
		GoogleEventID: created.Id,
		Title:         titleOrDefault(created),
		Start:         eventInstant(created.Start, loc),
		End:           eventInstant(created.End, loc),
		Description:   created.Description,
		IsAIBooking:   false,
	}, nil
}

// UpdateEvent patches the named fields of an existing event.
func (s *DefaultCalendarService) UpdateEvent(ctx context.Context, tenantID, eventID string, input models.EventInput) (*models.EnrichedEvent, error) {
	st, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	patch := &gcal.Event{}
	if input.Title != "" {
		patch.Summary = utils.SanitizeString(input.Title)
	}
	if input.Description != "" {
		patch.Description = utils.SanitizeString(input.Description)
	}
	if input.Start != "" {
		if start, err := time.Parse(time.RFC3339, input.Start); err == nil {
			patch.Start = &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: DefaultTimezone}
		}
	}
	if input.End != "" {
		if end, err := time.Parse(time.RFC3339, input.End); err == nil {
			patch.End = &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: DefaultTimezone}
		}
	}

	patched, err := provider.PatchEvent(ctx, calendarIDOf(st), eventID, patch)
	if err != nil {
		return nil, err
	}

	loc := Location()
	return &models.EnrichedEvent{
		ID:            patched.Id,
		GoogleEventID: patched.Id,
		Title:         titleOrDefault(patched),
		Start:         eventInstant(patched.Start, loc),
		End:           eventInstant(patched.End, loc),
		Description:   patched.Description,
		IsAIBooking:   IsAIBooking(patched),
	}, nil
}

// DeleteEvent removes an event from the tenant's calendar.
func (s *DefaultCalendarService) DeleteEvent(ctx context.Context, tenantID, eventID string) error {
	st, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return provider.DeleteEvent(ctx, calendarIDOf(st), eventID)
}
