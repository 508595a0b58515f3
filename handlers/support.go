package handlers

import (
	"net/http"

	"avix/middleware"
	"avix/services/notification"
	"avix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SupportHandler relays dashboard support requests to the operator chat.
type SupportHandler struct {
	Notifier notification.Notifier
}

type supportRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Send forwards a support request. The message content is sanitized before
// leaving the system.
func (h *SupportHandler) Send(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req supportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Subject and message are required", "")
		return
	}

	text := notification.SupportMessage(
		tenantID,
		utils.SanitizeAndLimit(req.Email, 200),
		utils.SanitizeAndLimit(req.Subject, 200),
		utils.SanitizeAndLimit(req.Message, 2000),
	)

	if err := h.Notifier.Send(c.Request.Context(), text); err != nil {
		utils.GetLogger().Error("support notification failed",
			zap.String("tenantID", tenantID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to deliver support request", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}
