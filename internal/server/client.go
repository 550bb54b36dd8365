package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relayio/chatrelay/internal/protocol"
)

const (
	writeWait = 10 * time.Second

	// sendBuffer bounds the per-session outbound queue. A session that
	// cannot drain it loses messages rather than stalling the relay.
	sendBuffer = 256
)

// Client pumps one websocket connection. Inbound frames are decoded
// into envelopes and queued to the dispatcher; outbound responses go
// through a buffered channel drained by the write pump. It implements
// registry.Session.
type Client struct {
	conn       *websocket.Conn
	dispatcher Dispatcher
	logger     *slog.Logger
	send       chan protocol.Response
}

func newClient(conn *websocket.Conn, dispatcher Dispatcher, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		dispatcher: dispatcher,
		logger:     logger,
		send:       make(chan protocol.Response, sendBuffer),
	}
}

// Send queues one response for delivery. It never blocks: when the
// session's buffer is full the response is dropped and logged.
func (c *Client) Send(response protocol.Response) {
	select {
	case c.send <- response:
	default:
		c.logger.Warn("slow session, dropping outbound message",
			slog.String("event", string(response.Event)))
	}
}

// run starts the write pump and blocks in the read pump until the
// connection dies.
func (c *Client) run() {
	c.dispatcher.Attach(c)
	defer c.dispatcher.Detach(c)

	done := make(chan struct{})
	go c.writePump(done)
	defer close(done)

	c.readPump()
}

func (c *Client) readPump() {
	defer c.conn.Close()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		var envelope protocol.Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.logger.Warn("undecodable frame", slog.String("error", err.Error()))
			continue
		}

		c.dispatcher.Dispatch(c, envelope)
	}
}

func (c *Client) writePump(done <-chan struct{}) {
	defer c.conn.Close()
	for {
		select {
		case response := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(response); err != nil {
				c.logger.Warn("websocket write failed", slog.String("error", err.Error()))
				return
			}
		case <-done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
