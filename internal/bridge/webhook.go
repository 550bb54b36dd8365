package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/relayio/chatrelay/internal/protocol"
)

const defaultDeliverTimeout = 10 * time.Second

// Webhook posts chat messages as JSON to a configured webhook URL on
// the external network's side.
type Webhook struct {
	url     string
	client  *http.Client
	logger  *slog.Logger
	timeout time.Duration
}

// NewWebhook creates a webhook bridge for the given URL.
func NewWebhook(url string, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:     url,
		client:  &http.Client{Timeout: defaultDeliverTimeout},
		logger:  logger,
		timeout: defaultDeliverTimeout,
	}
}

// webhookPayload is the body shape the external side receives.
type webhookPayload struct {
	Channel    string    `json:"channel"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	Attachment string    `json:"attachment,omitempty"`
	SentOn     time.Time `json:"sentOn"`
}

// Deliver posts the message in the background. Errors are logged and
// swallowed; the relay does not retry.
func (w *Webhook) Deliver(msg protocol.ChatMessage) {
	go w.post(msg)
}

func (w *Webhook) post(msg protocol.ChatMessage) {
	body, err := json.Marshal(webhookPayload{
		Channel:    msg.ChatChannel,
		Username:   msg.PlayerName,
		Content:    msg.ChatContent,
		Attachment: msg.Attachment,
		SentOn:     msg.CreatedOn,
	})
	if err != nil {
		w.logger.Error("bridge payload encode failed", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("bridge request build failed", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Error("bridge delivery failed",
			slog.String("channel", msg.ChatChannel),
			slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		w.logger.Error("bridge delivery rejected",
			slog.String("channel", msg.ChatChannel),
			slog.Int("status", resp.StatusCode))
	}
}
