package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	callsRepo "avix/database/repository/calls"
	"avix/models"
	"avix/services/notification"
	"avix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler ingests call-lifecycle webhooks from the voice-AI vendor.
type WebhookHandler struct {
	Calls  callsRepo.Repository
	Relay  *notification.WebhookRelay
	Secret string
}

// retellCall is the subset of the vendor call object the pipeline consumes.
type retellCall struct {
	CallID           string                  `json:"call_id"`
	FromNumber       string                  `json:"from_number"`
	CallStatus       string                  `json:"call_status"`
	StartTimestamp   int64                   `json:"start_timestamp"`
	EndTimestamp     int64                   `json:"end_timestamp"`
	Transcript       string                  `json:"transcript"`
	TranscriptObject []models.TranscriptTurn `json:"transcript_object"`
	RecordingURL     string                  `json:"recording_url"`
	CallAnalysis     struct {
		CallSummary        string         `json:"call_summary"`
		UserSentiment      string         `json:"user_sentiment"`
		CustomAnalysisData map[string]any `json:"custom_analysis_data"`
	} `json:"call_analysis"`
}

type retellWebhookPayload struct {
	Event string     `json:"event"`
	Call  retellCall `json:"call"`

	// Some vendor deliveries wrap the same shape under "data".
	Data *struct {
		Event string     `json:"event"`
		Call  retellCall `json:"call"`
	} `json:"data"`
}

// Handle processes a vendor webhook. Only call_analyzed and call_ended are
// persisted; every other lifecycle event is acknowledged and skipped.
// Redelivery of the same call id overwrites the stored row.
func (h *WebhookHandler) Handle(c *gin.Context) {
	logger := utils.GetLogger()

	tenantID := c.Query("userId")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Configuration Error",
			"message": "Missing userId in webhook URL.",
		})
		return
	}

	// Signature mismatches are logged but not rejected. Enforcement broke
	// live ingestion once (vendor signed with a different secret per agent)
	// and the endpoint already requires an unguessable tenant id.
	if h.Secret != "" {
		if sig := c.GetHeader("X-Retell-Signature"); sig != h.Secret {
			logger.Warn("webhook signature mismatch, accepting anyway",
				zap.String("tenantID", tenantID))
		}
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	var payload retellWebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	event, call := payload.Event, payload.Call
	if payload.Data != nil && event == "" {
		event, call = payload.Data.Event, payload.Data.Call
	}

	if event != "call_analyzed" && event != "call_ended" {
		logger.Info("webhook event ignored",
			zap.String("tenantID", tenantID), zap.String("event", event))
		c.JSON(http.StatusOK, gin.H{"received": true, "status": "ignored_event"})
		return
	}

	if call.CallID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing call_id"})
		return
	}

	record := buildCallRecord(tenantID, call)
	if err := h.Calls.Upsert(c.Request.Context(), record); err != nil {
		logger.Error("call upsert failed",
			zap.String("tenantID", tenantID), zap.String("callID", call.CallID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	logger.Info("call ingested",
		zap.String("tenantID", tenantID),
		zap.String("callID", call.CallID),
		zap.String("event", event),
		zap.Int("duration", record.Duration))

	if h.Relay != nil {
		var asMap map[string]any
		if err := json.Unmarshal(raw, &asMap); err == nil {
			h.Relay.Forward(tenantID, asMap)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// buildCallRecord maps a vendor call object to a calls-table row.
func buildCallRecord(tenantID string, call retellCall) *models.Call {
	duration := 0
	if call.EndTimestamp > call.StartTimestamp {
		duration = int((call.EndTimestamp - call.StartTimestamp) / 1000)
	}

	summary := call.CallAnalysis.CallSummary
	if summary == "" {
		summary = "No summary available"
	}

	createdAt := time.Now()
	if call.StartTimestamp > 0 {
		createdAt = time.UnixMilli(call.StartTimestamp)
	}

	return &models.Call{
		TenantID:       tenantID,
		ExternalCallID: call.CallID,
		CustomerNumber: call.FromNumber,
		Status:         call.CallStatus,
		Duration:       duration,
		Summary:        summary,
		Sentiment:      models.MapSentiment(call.CallAnalysis.UserSentiment),
		Transcript:     call.Transcript,
		TranscriptJSON: call.TranscriptObject,
		RecordingURL:   call.RecordingURL,
		CustomData:     call.CallAnalysis.CustomAnalysisData,
		CreatedAt:      createdAt,
	}
}
