package calendar

import (
	"context"
	"time"

	callsRepo "avix/database/repository/calls"
	settingsRepo "avix/database/repository/settings"
	"avix/models"
)

// CalendarService is the calendar surface consumed by the handlers.
type CalendarService interface {
	// Dashboard path: typed errors, localized banner messages.
	FetchEnrichedEvents(ctx context.Context, tenantID string, timeMin, timeMax time.Time) ([]models.EnrichedEvent, error)
	CreateEvent(ctx context.Context, tenantID string, input models.EventInput) (*models.EnrichedEvent, error)
	UpdateEvent(ctx context.Context, tenantID, eventID string, input models.EventInput) (*models.EnrichedEvent, error)
	DeleteEvent(ctx context.Context, tenantID, eventID string) error

	// Voice-AI tool path: never an error, always a plain-language result.
	CheckSlots(ctx context.Context, tenantID string, payload map[string]any) ToolResult
	BookAppointment(ctx context.Context, tenantID string, payload map[string]any) ToolResult
	CancelAppointment(ctx context.Context, tenantID string, payload map[string]any) ToolResult
}

// ToolResult is the voice-AI tool-call response. The vendor relays Result
// verbatim to an end user mid-conversation, so it is always plain language
// and always delivered with HTTP 200.
type ToolResult struct {
	Result  string   `json:"result"`
	Details string   `json:"details,omitempty"`
	Slots   []string `json:"slots,omitempty"`
	Date    string   `json:"date,omitempty"`
}

// DefaultCalendarService implements CalendarService against Postgres and
// the Google Calendar provider.
type DefaultCalendarService struct {
	Settings settingsRepo.Repository
	Calls    callsRepo.Repository
	Tokens   ClientAcquirer

	// MockData serves synthetic events and slots without touching Google.
	MockData bool
}

var _ CalendarService = (*DefaultCalendarService)(nil)
