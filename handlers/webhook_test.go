package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"avix/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCallStore struct {
	calls     []models.Call
	upsertErr error
}

func (f *fakeCallStore) Upsert(_ context.Context, call *models.Call) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.calls {
		if f.calls[i].TenantID == call.TenantID && f.calls[i].ExternalCallID == call.ExternalCallID {
			f.calls[i] = *call
			return nil
		}
	}
	f.calls = append(f.calls, *call)
	return nil
}

func (f *fakeCallStore) ListByTenant(_ context.Context, _ string) ([]models.Call, error) {
	return f.calls, nil
}

func webhookRouter(store *fakeCallStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &WebhookHandler{Calls: store}
	router := gin.New()
	router.POST("/api/retell/webhook", h.Handle)
	return router
}

func postWebhook(router *gin.Engine, url string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func analyzedPayload(callID string) map[string]any {
	return map[string]any{
		"event": "call_analyzed",
		"call": map[string]any{
			"call_id":         callID,
			"from_number":     "+393331234567",
			"call_status":     "ended",
			"start_timestamp": 1741600800000,
			"end_timestamp":   1741600895000,
			"transcript":      "Agent: Buongiorno...",
			"transcript_object": []map[string]string{
				{"role": "agent", "content": "Buongiorno"},
				{"role": "user", "content": "Vorrei un appuntamento"},
			},
			"recording_url": "https://example.com/rec.mp3",
			"call_analysis": map[string]any{
				"call_summary":   "Cliente prenota una consulenza.",
				"user_sentiment": "Positive",
			},
		},
	}
}

func TestWebhookMissingUserID(t *testing.T) {
	router := webhookRouter(&fakeCallStore{})

	w := postWebhook(router, "/api/retell/webhook", analyzedPayload("call-1"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing userId in webhook URL.")
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	store := &fakeCallStore{}
	router := webhookRouter(store)

	w := postWebhook(router, "/api/retell/webhook?userId=tenant-1", map[string]any{
		"event": "call_started",
		"call":  map[string]any{"call_id": "call-1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored_event")
	assert.Empty(t, store.calls)
}

func TestWebhookPersistsAnalyzedCall(t *testing.T) {
	store := &fakeCallStore{}
	router := webhookRouter(store)

	w := postWebhook(router, "/api/retell/webhook?userId=tenant-1", analyzedPayload("call-1"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.calls, 1)

	call := store.calls[0]
	assert.Equal(t, "tenant-1", call.TenantID)
	assert.Equal(t, "call-1", call.ExternalCallID)
	assert.Equal(t, "+393331234567", call.CustomerNumber)
	assert.Equal(t, 95, call.Duration, "duration is (end-start) in seconds")
	assert.Equal(t, "Cliente prenota una consulenza.", call.Summary)
	assert.Equal(t, models.SentimentPositive, call.Sentiment)
	require.Len(t, call.TranscriptJSON, 2)
	assert.Equal(t, "agent", call.TranscriptJSON[0].Role)
}

func TestWebhookRedeliveryOverwrites(t *testing.T) {
	store := &fakeCallStore{}
	router := webhookRouter(store)

	postWebhook(router, "/api/retell/webhook?userId=tenant-1", analyzedPayload("call-1"))

	updated := analyzedPayload("call-1")
	updated["call"].(map[string]any)["call_analysis"].(map[string]any)["user_sentiment"] = "Negative"
	postWebhook(router, "/api/retell/webhook?userId=tenant-1", updated)

	require.Len(t, store.calls, 1)
	assert.Equal(t, models.SentimentNegative, store.calls[0].Sentiment)
}

func TestWebhookDataWrapper(t *testing.T) {
	store := &fakeCallStore{}
	router := webhookRouter(store)

	w := postWebhook(router, "/api/retell/webhook?userId=tenant-1", map[string]any{
		"data": analyzedPayload("call-wrapped"),
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "call-wrapped", store.calls[0].ExternalCallID)
}

func TestWebhookDefaultSummary(t *testing.T) {
	store := &fakeCallStore{}
	router := webhookRouter(store)

	payload := analyzedPayload("call-1")
	payload["call"].(map[string]any)["call_analysis"] = map[string]any{}
	postWebhook(router, "/api/retell/webhook?userId=tenant-1", payload)

	require.Len(t, store.calls, 1)
	assert.Equal(t, "No summary available", store.calls[0].Summary)
	assert.Equal(t, models.SentimentNeutral, store.calls[0].Sentiment)
}

func TestToolsMissingUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &ToolsHandler{}
	router := gin.New()
	router.POST("/api/retell/calendar/check", h.CheckAvailability)

	body := bytes.NewReader([]byte(`{"date":"2025-03-10"}`))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/retell/calendar/check", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing userId in webhook URL.")
}
