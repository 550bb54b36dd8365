package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/relayio/chatrelay/internal/protocol"
	"github.com/relayio/chatrelay/internal/registry"
	"github.com/relayio/chatrelay/internal/testutil"
)

// fakeDispatcher records transport calls and echoes every dispatched
// envelope straight back to the session.
type fakeDispatcher struct {
	mu        sync.Mutex
	attached  int
	detached  int
	envelopes []protocol.Envelope
	injected  []protocol.ChatMessage
}

func (f *fakeDispatcher) Attach(registry.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached++
}

func (f *fakeDispatcher) Detach(registry.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached++
}

func (f *fakeDispatcher) Dispatch(session registry.Session, envelope protocol.Envelope) {
	f.mu.Lock()
	f.envelopes = append(f.envelopes, envelope)
	f.mu.Unlock()
	session.Send(protocol.Response{Event: envelope.Event, Payload: json.RawMessage(envelope.Payload)})
}

func (f *fakeDispatcher) InjectBridgeMessage(msg protocol.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injected = append(f.injected, msg)
}

type ServerSuite struct {
	suite.Suite
	dispatcher *fakeDispatcher
	ts         *httptest.Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.dispatcher = &fakeDispatcher{}
	s.ts = httptest.NewServer(NewRouter(RouterConfig{
		Dispatcher: s.dispatcher,
		Logger:     testutil.NopLogger(),
	}))
}

func (s *ServerSuite) TearDownTest() {
	s.ts.Close()
}

func (s *ServerSuite) wsURL() string {
	return "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/ws"
}

func (s *ServerSuite) TestHealthz() {
	resp, err := http.Get(s.ts.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("ok", body["status"])
}

func (s *ServerSuite) TestWebsocketRoundTrip() {
	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL(), nil)
	s.Require().NoError(err)
	defer conn.Close()

	envelope := protocol.Envelope{
		Event:   protocol.EventRegisterPlayer,
		Payload: json.RawMessage(`{"playerName":"Alice","playerUID":"p1","register":true}`),
	}
	s.Require().NoError(conn.WriteJSON(envelope))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var response protocol.Response
	s.Require().NoError(conn.ReadJSON(&response))
	s.Equal(protocol.EventRegisterPlayer, response.Event)

	s.dispatcher.mu.Lock()
	defer s.dispatcher.mu.Unlock()
	s.Require().Len(s.dispatcher.envelopes, 1)
	s.Equal(protocol.EventRegisterPlayer, s.dispatcher.envelopes[0].Event)
	s.Equal(1, s.dispatcher.attached)
}

func (s *ServerSuite) TestWebsocketDisconnectDetaches() {
	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL(), nil)
	s.Require().NoError(err)
	conn.Close()

	s.Eventually(func() bool {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		return s.dispatcher.detached == 1
	}, time.Second, 5*time.Millisecond)
}

func (s *ServerSuite) TestUndecodableFrameSkipped() {
	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL(), nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	envelope := protocol.Envelope{Event: protocol.EventPlayerOnline, Payload: json.RawMessage(`{}`)}
	s.Require().NoError(conn.WriteJSON(envelope))

	s.Eventually(func() bool {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		return len(s.dispatcher.envelopes) == 1
	}, time.Second, 5*time.Millisecond)
}

func (s *ServerSuite) TestBridgeInbound() {
	msg := protocol.ChatMessage{
		ChatVersion: protocol.ChatVersion,
		ChatChannel: "global",
		ChatContent: "from outside",
		PlayerName:  "Discorder",
	}
	body, err := json.Marshal(msg)
	s.Require().NoError(err)

	resp, err := http.Post(s.ts.URL+"/bridge/inbound", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusAccepted, resp.StatusCode)
	s.dispatcher.mu.Lock()
	defer s.dispatcher.mu.Unlock()
	s.Require().Len(s.dispatcher.injected, 1)
	s.Equal("from outside", s.dispatcher.injected[0].ChatContent)
}

func (s *ServerSuite) TestBridgeInboundBadBody() {
	resp, err := http.Post(s.ts.URL+"/bridge/inbound", "application/json", strings.NewReader("{"))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
