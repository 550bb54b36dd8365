package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayio/chatrelay/internal/protocol"
	"github.com/relayio/chatrelay/internal/testutil"
)

func TestWebhookDeliverPostsJSON(t *testing.T) {
	received := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
	}))
	defer server.Close()

	bridge := NewWebhook(server.URL, testutil.NopLogger())
	bridge.Deliver(protocol.ChatMessage{
		ChatChannel: "global",
		ChatContent: "hello",
		PlayerName:  "Alice",
	})

	select {
	case payload := <-received:
		assert.Equal(t, "global", payload.Channel)
		assert.Equal(t, "hello", payload.Content)
		assert.Equal(t, "Alice", payload.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestWebhookDeliverSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	bridge := NewWebhook(server.URL, testutil.NopLogger())

	// Must not panic or block the caller.
	bridge.Deliver(protocol.ChatMessage{ChatChannel: "global"})
	time.Sleep(50 * time.Millisecond)
}
