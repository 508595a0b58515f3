package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"avix/utils"

	"go.uber.org/zap"
)

// WebhookRelay forwards vendor webhook payloads to a downstream automation
// endpoint. Delivery is best effort: ingestion must never block or fail on
// relay problems, so errors are logged and dropped. No retries, no queue.
type WebhookRelay struct {
	TargetURL string
	Client    *http.Client
}

func NewWebhookRelay(targetURL string) *WebhookRelay {
	return &WebhookRelay{
		TargetURL: targetURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Forward re-posts the raw payload with the resolved tenant injected as
// user_id. Runs in its own goroutine with a detached context so the
// originating request can complete first.
func (r *WebhookRelay) Forward(tenantID string, payload map[string]any) {
	if r == nil || r.TargetURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		enriched := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			enriched[k] = v
		}
		enriched["user_id"] = tenantID

		body, err := json.Marshal(enriched)
		if err != nil {
			utils.GetLogger().Warn("webhook relay marshal failed", zap.Error(err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.TargetURL, bytes.NewReader(body))
		if err != nil {
			utils.GetLogger().Warn("webhook relay request build failed", zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := r.Client.Do(req)
		if err != nil {
			utils.GetLogger().Warn("webhook relay delivery failed",
				zap.String("tenantID", tenantID), zap.Error(err))
			return
		}
		res.Body.Close()

		if res.StatusCode >= 300 {
			utils.GetLogger().Warn("webhook relay rejected downstream",
				zap.String("tenantID", tenantID), zap.Int("status", res.StatusCode))
		}
	}()
}
