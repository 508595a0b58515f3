package handlers

import (
	callsRepo "avix/database/repository/calls"
	settingsRepo "avix/database/repository/settings"
	"avix/services/calendar"
	"avix/services/notification"
)

// HandlerBundle aggregates every HTTP handler with its dependencies wired.
type HandlerBundle struct {
	Calendar *CalendarHandler
	Tools    *ToolsHandler
	Webhook  *WebhookHandler
	Auth     *AuthHandler
	Support  *SupportHandler
}

// NewHandlerBundle wires the handlers against the shared services.
func NewHandlerBundle(
	calSvc calendar.CalendarService,
	tokens *calendar.TokenManager,
	settings settingsRepo.Repository,
	calls callsRepo.Repository,
	relay *notification.WebhookRelay,
	notifier notification.Notifier,
	webhookSecret string,
) *HandlerBundle {
	return &HandlerBundle{
		Calendar: &CalendarHandler{Service: calSvc},
		Tools:    &ToolsHandler{Service: calSvc},
		Webhook:  &WebhookHandler{Calls: calls, Relay: relay, Secret: webhookSecret},
		Auth:     &AuthHandler{Tokens: tokens, Settings: settings},
		Support:  &SupportHandler{Notifier: notifier},
	}
}
