// Package server is the HTTP and websocket transport in front of the
// relay dispatcher.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/relayio/chatrelay/internal/middleware"
	"github.com/relayio/chatrelay/internal/protocol"
	"github.com/relayio/chatrelay/internal/registry"
)

// Dispatcher is the slice of the relay dispatcher the transport needs.
type Dispatcher interface {
	Attach(session registry.Session)
	Detach(session registry.Session)
	Dispatch(session registry.Session, envelope protocol.Envelope)
	InjectBridgeMessage(msg protocol.ChatMessage)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Game servers connect from arbitrary hosts.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RouterConfig holds what the router wires together.
type RouterConfig struct {
	Dispatcher Dispatcher
	Logger     *slog.Logger
}

// NewRouter builds the relay's HTTP surface: the websocket endpoint for
// game-server sessions, the inbound bridge webhook, and a health probe.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &handlers{dispatcher: cfg.Dispatcher, logger: cfg.Logger}

	// The upgrade endpoint skips the logging middleware; everything
	// else gets logged and panic-guarded.
	r.HandleFunc("/ws", h.connect).Methods(http.MethodGet)

	plain := r.PathPrefix("/").Subrouter()
	plain.Use(middleware.Recovery(cfg.Logger))
	plain.Use(middleware.Logging(cfg.Logger))
	plain.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	plain.HandleFunc("/bridge/inbound", h.bridgeInbound).Methods(http.MethodPost)

	return r
}

type handlers struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

func (h *handlers) connect(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.logger.Info("session connected", slog.String("remote", conn.RemoteAddr().String()))
	client := newClient(conn, h.dispatcher, h.logger)
	go func() {
		client.run()
		h.logger.Info("session disconnected", slog.String("remote", conn.RemoteAddr().String()))
	}()
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// bridgeInbound accepts a chat message from the external network and
// fans it out to every connected session. Bridge traffic carries no
// channel authorization and is not echoed back to the bridge.
func (h *handlers) bridgeInbound(w http.ResponseWriter, r *http.Request) {
	var msg protocol.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid chat message", http.StatusBadRequest)
		return
	}

	h.dispatcher.InjectBridgeMessage(msg)
	w.WriteHeader(http.StatusAccepted)
}
