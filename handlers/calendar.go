package handlers

import (
	"net/http"
	"time"

	"avix/middleware"
	"avix/models"
	"avix/services/calendar"
	"avix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler serves the dashboard calendar endpoints.
type CalendarHandler struct {
	Service calendar.CalendarService
}

// GetEvents returns the tenant's enriched events for the requested window.
// Service failures still answer with a renderable body: an empty event list
// plus a localized banner message, at the status the error code maps to.
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	timeMin := time.Now()
	timeMax := timeMin.AddDate(0, 0, 30)
	if raw := c.Query("timeMin"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			timeMin = t
		}
	}
	if raw := c.Query("timeMax"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			timeMax = t
		}
	}

	events, err := h.Service.FetchEnrichedEvents(c.Request.Context(), tenantID, timeMin, timeMax)
	if err != nil {
		code := calendar.ErrorCode(err)
		utils.GetLogger().Warn("calendar fetch failed",
			zap.String("tenantID", tenantID), zap.String("code", code))
		c.JSON(calendar.HTTPStatus(code), gin.H{
			"events":    []models.EnrichedEvent{},
			"error":     calendar.UserMessage(code),
			"errorCode": code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent inserts a manual event from the dashboard.
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.Service.CreateEvent(c.Request.Context(), tenantID, input)
	if err != nil {
		code := calendar.ErrorCode(err)
		c.JSON(calendar.HTTPStatus(code), gin.H{
			"error":     calendar.UserMessage(code),
			"errorCode": code,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": created})
}

// UpdateEvent patches an existing event.
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	eventID := c.Param("eventId")

	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.Service.UpdateEvent(c.Request.Context(), tenantID, eventID, input)
	if err != nil {
		code := calendar.ErrorCode(err)
		c.JSON(calendar.HTTPStatus(code), gin.H{
			"error":     calendar.UserMessage(code),
			"errorCode": code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": updated})
}

// DeleteEvent removes an event.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	eventID := c.Param("eventId")

	if err := h.Service.DeleteEvent(c.Request.Context(), tenantID, eventID); err != nil {
		code := calendar.ErrorCode(err)
		c.JSON(calendar.HTTPStatus(code), gin.H{
			"error":     calendar.UserMessage(code),
			"errorCode": code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
