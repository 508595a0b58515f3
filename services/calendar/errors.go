package calendar

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to the dashboard. Each maps to a localized message
// and an HTTP status; the dashboard renders the message next to an empty
// event list instead of failing the whole page.
const (
	CodeUnauthenticated         = "UNAUTHORIZED"
	CodeSettingsNotFound        = "SETTINGS_NOT_FOUND"
	CodeNotConfigured           = "NOT_CONFIGURED"
	CodeMissingCredentials      = "MISSING_CREDENTIALS"
	CodeCredentialMissing       = "CREDENTIAL_MISSING"
	CodeTokenRevoked            = "OAUTH_TOKEN_REVOKED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeCalendarNotFound        = "CALENDAR_NOT_FOUND"
	CodeFetchError              = "CALENDAR_FETCH_ERROR"
)

// CalendarError is a typed service error with a stable code.
type CalendarError struct {
	Code    string
	Message string
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a CalendarError for a known code.
func NewError(code, message string) *CalendarError {
	return &CalendarError{Code: code, Message: message}
}

// ErrorCode extracts the code from err, defaulting to CALENDAR_FETCH_ERROR.
func ErrorCode(err error) string {
	var ce *CalendarError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeFetchError
}

// UserMessages maps error codes to the Italian dashboard banner text.
var UserMessages = map[string]string{
	CodeUnauthenticated:         "Non autorizzato.",
	CodeSettingsNotFound:        "Impostazioni non trovate.",
	CodeNotConfigured:           "Collega il tuo Google Calendar nelle Impostazioni.",
	CodeMissingCredentials:      "Credenziali Google OAuth non configurate sul server.",
	CodeTokenRevoked:            "Token scaduto o revocato. Ricollega il calendario nelle Impostazioni.",
	CodeInsufficientPermissions: "Permessi insufficienti. Ricollega il calendario con tutti i permessi richiesti.",
	CodeCalendarNotFound:        "Calendario non trovato. Verifica l'ID nelle Impostazioni.",
	CodeFetchError:              "Errore nel recupero degli eventi. Riprova più tardi.",
}

// UserMessage returns the localized banner text for an error code.
func UserMessage(code string) string {
	if msg, ok := UserMessages[code]; ok {
		return msg
	}
	return UserMessages[CodeFetchError]
}

// HTTPStatus maps an error code to the dashboard response status.
// Configuration-state codes deliberately answer 200: the dashboard stays
// functional and shows the banner.
func HTTPStatus(code string) int {
	switch code {
	case CodeUnauthenticated, CodeTokenRevoked:
		return http.StatusUnauthorized
	case CodeInsufficientPermissions:
		return http.StatusForbidden
	case CodeCalendarNotFound:
		return http.StatusNotFound
	case CodeSettingsNotFound, CodeNotConfigured, CodeMissingCredentials:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
