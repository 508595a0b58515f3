package calendar

import (
	"context"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// Provider is the calendar event API the service depends on. Implemented by
// googleProvider in production and by fakes in tests.
type Provider interface {
	// ListEvents returns events in [timeMin, timeMax), recurrences expanded
	// to single instances, ordered by start time, capped at 250 results.
	// Callers needing more window smaller ranges themselves.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*gcal.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
	PatchEvent(ctx context.Context, calendarID, eventID string, event *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

const maxEventResults = 250

type googleProvider struct {
	svc *gcal.Service
}

func (p *googleProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*gcal.Event, error) {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	res, err := p.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventResults).
		TimeZone(DefaultTimezone).
		Context(callCtx).
		Do()
	if err != nil {
		return nil, mapProviderError(err)
	}
	return res.Items, nil
}

func (p *googleProvider) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	created, err := p.svc.Events.Insert(calendarID, event).Context(callCtx).Do()
	if err != nil {
		return nil, mapProviderError(err)
	}
	return created, nil
}

func (p *googleProvider) PatchEvent(ctx context.Context, calendarID, eventID string, event *gcal.Event) (*gcal.Event, error) {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	patched, err := p.svc.Events.Patch(calendarID, eventID, event).Context(callCtx).Do()
	if err != nil {
		return nil, mapProviderError(err)
	}
	return patched, nil
}

func (p *googleProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	if err := p.svc.Events.Delete(calendarID, eventID).Context(callCtx).Do(); err != nil {
		return mapProviderError(err)
	}
	return nil
}

// mapProviderError categorizes a Google API failure into the service's
// error taxonomy.
func mapProviderError(err error) error {
	if IsRevokedTokenError(err) {
		return NewError(CodeTokenRevoked, err.Error())
	}
	if gerr, ok := err.(*googleapi.Error); ok {
		switch gerr.Code {
		case 401:
			return NewError(CodeTokenRevoked, gerr.Message)
		case 403:
			return NewError(CodeInsufficientPermissions, gerr.Message)
		case 404:
			return NewError(CodeCalendarNotFound, gerr.Message)
		}
	}
	return NewError(CodeFetchError, err.Error())
}
