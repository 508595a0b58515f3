package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"avix/utils"

	"go.uber.org/zap"
)

// Notifier delivers operator-facing messages (support requests, alerts).
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends messages to a fixed chat via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *http.Client
}

// NewTelegramNotifier builds a notifier with a bounded HTTP client.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if n.BotToken == "" || n.ChatID == "" {
		return fmt.Errorf("telegram notifier not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    n.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		utils.GetLogger().Error("telegram send failed",
			zap.Int("status", res.StatusCode), zap.ByteString("body", body))
		return fmt.Errorf("telegram API responded %d", res.StatusCode)
	}
	return nil
}

// SupportMessage formats a dashboard support request for the operator chat.
func SupportMessage(tenantID, email, subject, message string) string {
	return fmt.Sprintf("*Nuova richiesta di supporto*\nTenant: `%s`\nEmail: %s\nOggetto: %s\n\n%s",
		tenantID, email, subject, message)
}
