package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relayio/chatrelay/internal/protocol"
)

// Client is a one-shot websocket client for the relay: dial, send one
// envelope, collect whatever the relay says back until the window
// closes.
type Client struct {
	serverURL string
	timeout   time.Duration
}

// NewClient creates a new relay client
func NewClient(serverURL string, timeout time.Duration) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		timeout:   timeout,
	}
}

// Do sends one envelope and returns every response received within the
// client's timeout window.
func (c *Client) Do(event protocol.EventTag, payload any) ([]protocol.Response, error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.websocketURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to relay: %w", err)
	}
	defer func() { _ = conn.Close() }()

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := conn.WriteJSON(protocol.Envelope{Event: event, Payload: raw}); err != nil {
		return nil, fmt.Errorf("failed to send envelope: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.timeout))

	var responses []protocol.Response
	for {
		var response protocol.Response
		if err := conn.ReadJSON(&response); err != nil {
			// The read window closing is the normal end of a one-shot
			// exchange.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return responses, nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return responses, nil
			}
			return responses, fmt.Errorf("failed to read response: %w", err)
		}
		responses = append(responses, response)
	}
}

// websocketURL converts the configured server URL to the ws endpoint.
func (c *Client) websocketURL() string {
	url := c.serverURL
	switch {
	case strings.HasPrefix(url, "https"):
		url = "wss" + strings.TrimPrefix(url, "https")
	case strings.HasPrefix(url, "http"):
		url = "ws" + strings.TrimPrefix(url, "http")
	}
	return url + "/ws"
}
