package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"avix/models"
	"avix/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
)

// Result strings for the voice-AI tool contract. The vendor reads these to
// an end user mid-call, so they must stay plain language.
const (
	resultMissingDateTime  = "Error: Missing date or time."
	resultMissingPhone     = "Error: Missing phone number."
	resultNotConnected     = "Error: Calendar not connected."
	resultSettingsNotFound = "Error: User settings not found. Calendar not connected."
	resultBookingFailed    = "Error: Si è verificato un errore durante la prenotazione."
	resultBooked           = "Success: Appuntamento confermato!"
	resultCancelled        = "Success: Appointment cancelled."
	resultNoAppointment    = "Error: No appointment found for this number."
	resultCancelFailed     = "Error cancelling appointment."
	resultCheckFailed      = "Error checking availability."
)

// The vendor wraps tool parameters inconsistently. Unwrap strategies are
// tried in order, one level deep, stopping at the first match.
var envelopeExtractors = []func(map[string]any) (map[string]any, bool){
	func(m map[string]any) (map[string]any, bool) { return nestedObject(m, "args") },
	func(m map[string]any) (map[string]any, bool) { return nestedObject(m, "parameters") },
	func(m map[string]any) (map[string]any, bool) {
		if call, ok := nestedObject(m, "call"); ok {
			return nestedObject(call, "args")
		}
		return nil, false
	},
	func(m map[string]any) (map[string]any, bool) { return nestedObject(m, "argument") },
}

func nestedObject(m map[string]any, key string) (map[string]any, bool) {
	if v, ok := m[key].(map[string]any); ok {
		return v, true
	}
	return nil, false
}

// unwrapPayload applies the envelope strategies, falling back to the
// payload itself.
func unwrapPayload(payload map[string]any) map[string]any {
	for _, extract := range envelopeExtractors {
		if inner, ok := extract(payload); ok {
			return inner
		}
	}
	return payload
}

var (
	phoneAliases = []string{"phone", "customer_phone", "phone_number", "phoneNumber", "customerPhone", "telefono", "numero", "mobile", "cell"}
	nameAliases  = []string{"name", "customer_name", "customerName", "nome", "cliente"}
	emailAliases = []string{"email", "customer_email", "customerEmail", "mail"}
	dateAliases  = []string{"date", "query", "when", "start_date"}
)

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// splitISODateTime handles a combined "date T time" value in the time
// field: the date part fills a missing date, and the time is truncated to
// HH:MM with seconds discarded.
func splitISODateTime(date, timeStr string) (string, string) {
	if !strings.Contains(timeStr, "T") {
		return date, timeStr
	}
	parts := strings.SplitN(timeStr, "T", 2)
	if date == "" {
		date = parts[0]
	}
	timePart := parts[1]
	if pieces := strings.Split(timePart, ":"); len(pieces) >= 2 {
		timeStr = pieces[0] + ":" + pieces[1]
	} else {
		timeStr = timePart
	}
	return date, timeStr
}

// parseBookingRequest normalizes an unwrapped payload into a BookingRequest.
// The second return is a non-empty result string when validation fails.
func parseBookingRequest(body map[string]any) (models.BookingRequest, string) {
	date := firstString(body, "date")
	timeStr := firstString(body, "time")
	date, timeStr = splitISODateTime(date, timeStr)

	req := models.BookingRequest{
		Name:  firstString(body, nameAliases...),
		Email: firstString(body, emailAliases...),
		Date:  date,
		Time:  timeStr,
		Note:  firstString(body, "summary", "note"),
	}
	if req.Name == "" {
		req.Name = "Cliente"
	}

	if req.Date == "" || req.Time == "" {
		return req, resultMissingDateTime
	}

	phone := NormalizePhone(firstString(body, phoneAliases...))
	// Lenient by policy: length is the only gate, so legitimate
	// international formats are never blocked.
	if len(phone) < 6 {
		return req, resultMissingPhone
	}
	req.Phone = phone

	return req, ""
}

// BookAppointment runs the booking flow: unwrap, validate, schedule a
// 30-minute event and confirm. Every failure is reported in the result
// string; the handler always answers 200.
func (s *DefaultCalendarService) BookAppointment(ctx context.Context, tenantID string, payload map[string]any) ToolResult {
	logger := utils.GetLogger()

	body := unwrapPayload(payload)
	req, failure := parseBookingRequest(body)
	if failure != "" {
		return ToolResult{Result: failure}
	}

	if s.MockData {
		return ToolResult{
			Result:  resultBooked,
			Details: fmt.Sprintf("Appuntamento prenotato per %s alle %s.", req.Date, req.Time),
		}
	}

	st, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		logger.Warn("booking: credential acquisition failed",
			zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
		return ToolResult{Result: toolResultForError(err, resultBookingFailed)}
	}

	loc := Location()
	day, err := parseDate(req.Date, loc)
	if err != nil {
		return ToolResult{Result: resultMissingDateTime}
	}
	hour, minute, ok := parseClock(req.Time)
	if !ok {
		return ToolResult{Result: resultMissingDateTime}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	end := start.Add(SlotDuration)

	event := &gcal.Event{
		Summary:     fmt.Sprintf("%s (AI)", req.Name),
		Description: bookingDescription(req),
		Start:       &gcal.EventDateTime{DateTime: formatLocalDateTime(start), TimeZone: DefaultTimezone},
		End:         &gcal.EventDateTime{DateTime: formatLocalDateTime(end), TimeZone: DefaultTimezone},
	}

	if _, err := provider.InsertEvent(ctx, calendarIDOf(st), event); err != nil {
		logger.Error("booking: event insert failed",
			zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
		return ToolResult{Result: resultBookingFailed}
	}

	logger.Info("booking confirmed",
		zap.String("tenantID", tenantID), zap.String("date", req.Date), zap.String("time", req.Time))
	return ToolResult{
		Result:  resultBooked,
		Details: fmt.Sprintf("Appuntamento prenotato per %s alle %s.", req.Date, req.Time),
	}
}

// bookingDescription synthesizes the event body. The first line doubles as
// the AI-booking marker the enrichment pipeline classifies on.
func bookingDescription(req models.BookingRequest) string {
	return fmt.Sprintf("Prenotazione automatica Avix AI\nCliente: %s\nTelefono: %s\nEmail: %s\nNote: %s",
		req.Name, req.Phone, orDash(req.Email), orDash(req.Note))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// CheckSlots computes free 30-minute slots for the requested day within
// the tenant's office hours.
func (s *DefaultCalendarService) CheckSlots(ctx context.Context, tenantID string, payload map[string]any) ToolResult {
	logger := utils.GetLogger()

	body := unwrapPayload(payload)
	loc := Location()

	target := time.Now().In(loc)
	if raw := firstString(body, dateAliases...); raw != "" {
		parsed, err := parseDate(raw, loc)
		if err != nil {
			return ToolResult{Result: resultMissingDateTime}
		}
		target = parsed
	}

	startHour, endHour := DefaultBusinessStart, DefaultBusinessEnd

	var events []*gcal.Event
	if s.MockData {
		events = mockDayEvents(target, loc)
	} else {
		st, provider, err := s.acquireForTenant(ctx, tenantID)
		if err != nil {
			logger.Warn("availability: credential acquisition failed",
				zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
			return ToolResult{Result: toolResultForError(err, resultCheckFailed)}
		}
		startHour, endHour = st.EffectiveOfficeHours(DefaultBusinessStart, DefaultBusinessEnd)

		dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc)
		dayEnd := dayStart.Add(24 * time.Hour)
		events, err = provider.ListEvents(ctx, calendarIDOf(st), dayStart, dayEnd)
		if err != nil {
			logger.Error("availability: event list failed",
				zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
			return ToolResult{Result: resultCheckFailed}
		}
	}

	var free []string
	for _, slot := range GenerateDaySlots(target, loc, startHour, endHour) {
		if IsSlotFree(slot, events) {
			free = append(free, slot.Format("15:04"))
		}
	}

	return ToolResult{
		Result: fmt.Sprintf("Found %d available slots: %s", len(free), strings.Join(free, ", ")),
		Slots:  free,
		Date:   target.Format("02/01/2006"),
	}
}

// CancelAppointment searches the next 60 days for an event carrying the
// caller's phone number and deletes the first match.
func (s *DefaultCalendarService) CancelAppointment(ctx context.Context, tenantID string, payload map[string]any) ToolResult {
	logger := utils.GetLogger()

	body := unwrapPayload(payload)
	phone := strings.ReplaceAll(firstString(body, append([]string{"phone_number"}, phoneAliases...)...), " ", "")
	if phone == "" {
		return ToolResult{Result: resultMissingPhone}
	}

	if s.MockData {
		return ToolResult{Result: resultCancelled}
	}

	st, provider, err := s.acquireForTenant(ctx, tenantID)
	if err != nil {
		logger.Warn("cancel: credential acquisition failed",
			zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
		return ToolResult{Result: toolResultForError(err, resultCancelFailed)}
	}

	now := time.Now()
	events, err := provider.ListEvents(ctx, calendarIDOf(st), now, now.AddDate(0, 0, 60))
	if err != nil {
		logger.Error("cancel: event list failed",
			zap.String("tenantID", tenantID), zap.String("code", ErrorCode(err)))
		return ToolResult{Result: resultCancelFailed}
	}

	var match *gcal.Event
	for _, ev := range events {
		if ev.Id == "" {
			continue
		}
		if extracted := ExtractPhone(ev.Description); extracted != "" && strings.Contains(extracted, phone) {
			match = ev
			break
		}
		raw := strings.ReplaceAll(ev.Summary+ev.Description, " ", "")
		if strings.Contains(raw, phone) {
			match = ev
			break
		}
	}

	if match == nil {
		return ToolResult{Result: resultNoAppointment}
	}

	if err := provider.DeleteEvent(ctx, calendarIDOf(st), match.Id); err != nil {
		logger.Error("cancel: event delete failed",
			zap.String("tenantID", tenantID), zap.String("eventID", match.Id), zap.String("code", ErrorCode(err)))
		return ToolResult{Result: resultCancelFailed}
	}

	logger.Info("appointment cancelled",
		zap.String("tenantID", tenantID), zap.String("eventID", match.Id))
	return ToolResult{Result: resultCancelled}
}

// toolResultForError converts a typed dashboard error into the generic
// result text the voice agent can relay. Credential problems all read as
// "calendar not connected"; the reconnect happens in the dashboard.
func toolResultForError(err error, fallback string) string {
	switch ErrorCode(err) {
	case CodeSettingsNotFound:
		return resultSettingsNotFound
	case CodeNotConfigured, CodeCredentialMissing, CodeTokenRevoked:
		return resultNotConnected
	default:
		return fallback
	}
}
