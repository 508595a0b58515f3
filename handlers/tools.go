package handlers

import (
	"net/http"

	"avix/services/calendar"

	"github.com/gin-gonic/gin"
)

// ToolsHandler serves the voice-AI tool-call endpoints. The vendor relays
// the result text verbatim to a live caller, so once a request is well
// formed the answer is always 200 with a plain-language result.
type ToolsHandler struct {
	Service calendar.CalendarService
}

// tenantFromQuery resolves the tenant from the userId query parameter the
// vendor appends to the tool URL. Missing means a misconfigured agent, the
// one case that must fail loudly at setup time rather than mid-call.
func tenantFromQuery(c *gin.Context) (string, bool) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Configuration Error",
			"message": "Missing userId in webhook URL.",
		})
		return "", false
	}
	return userID, true
}

func bindToolPayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return nil, false
	}
	return payload, true
}

// CheckAvailability handles the check_availability tool call.
func (h *ToolsHandler) CheckAvailability(c *gin.Context) {
	tenantID, ok := tenantFromQuery(c)
	if !ok {
		return
	}
	payload, ok := bindToolPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Service.CheckSlots(c.Request.Context(), tenantID, payload))
}

// BookAppointment handles the book_appointment tool call.
func (h *ToolsHandler) BookAppointment(c *gin.Context) {
	tenantID, ok := tenantFromQuery(c)
	if !ok {
		return
	}
	payload, ok := bindToolPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Service.BookAppointment(c.Request.Context(), tenantID, payload))
}

// CancelAppointment handles the cancel_appointment tool call.
func (h *ToolsHandler) CancelAppointment(c *gin.Context) {
	tenantID, ok := tenantFromQuery(c)
	if !ok {
		return
	}
	payload, ok := bindToolPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Service.CancelAppointment(c.Request.Context(), tenantID, payload))
}
