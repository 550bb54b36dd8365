package relay

import (
	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/protocol"
)

func (s *DispatcherSuite) chat(version int, channel, uid, name, content string) protocol.ChatMessage {
	return protocol.ChatMessage{
		CreatedOn:   s.clock.Now(),
		ChatVersion: version,
		ChatContent: content,
		ChatChannel: channel,
		PlayerName:  name,
		PlayerUID:   uid,
		SourceName:  "test-server",
	}
}

func (s *DispatcherSuite) TestBroadcastFansOutToEverySession() {
	member := s.registeredPlayer("p1", "Alice")
	member.JoinChannel("global")
	other := &fakeSession{}
	s.attach(other)

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(protocol.ChatVersion, "global", "p1", "Alice", "hello"))

	s.Require().Len(s.session.broadcasts(), 1)
	s.Require().Len(other.broadcasts(), 1)
	s.Equal("hello", other.broadcasts()[0].ChatContent)
}

func (s *DispatcherSuite) TestBroadcastOpenChannelReachesBridge() {
	member := s.registeredPlayer("p1", "Alice")
	member.JoinChannel("global")

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(protocol.ChatVersion, "global", "p1", "Alice", "hello"))

	s.Require().Len(s.bridge.delivered, 1)
	s.Equal("global", s.bridge.delivered[0].ChatChannel)
}

func (s *DispatcherSuite) TestBroadcastSecureChannelSkipsBridge() {
	member := s.registeredPlayer("p1", "Alice")
	member.JoinChannel("secretclub")
	s.dir.PutChannel(&model.Channel{
		ID:             "secretclub",
		Secure:         true,
		CredentialHash: credentialHash(testSecret, "hunter2"),
		OwnerID:        "p1",
	})

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(protocol.ChatVersion, "secretclub", "p1", "Alice", "psst"))

	s.Len(s.session.broadcasts(), 1)
	s.Empty(s.bridge.delivered)
}

func (s *DispatcherSuite) TestBroadcastUnknownChannelRejected() {
	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(protocol.ChatVersion, "nowhere", "p1", "Alice", "hello"))

	s.Equal(protocol.CodeChannelUnknown, s.session.lastResponse().ErrorCode)
	s.Empty(s.session.broadcasts())
	s.Empty(s.bridge.delivered)
}

func (s *DispatcherSuite) TestBroadcastNonMemberRejected() {
	s.registeredPlayer("p1", "Alice")

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(protocol.ChatVersion, "global", "p1", "Alice", "hello"))

	s.Equal(protocol.CodeChannelNotMember, s.session.lastResponse().ErrorCode)
	s.Empty(s.session.broadcasts())
	s.Empty(s.bridge.delivered)
}

func (s *DispatcherSuite) TestLegacyBroadcastSkipsMembershipCheck() {
	// Version 1 traffic predates channels: no membership gate, every
	// session gets the message.
	other := &fakeSession{}
	s.attach(other)

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(1, "global", "p1", "Alice", "old client"))

	s.Len(s.session.broadcasts(), 1)
	s.Len(other.broadcasts(), 1)
	s.Len(s.bridge.delivered, 1)
}

func (s *DispatcherSuite) TestLegacyBroadcastUnknownChannelStillBridged() {
	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(1, "nowhere", "p1", "Alice", "old client"))

	s.Len(s.session.broadcasts(), 1)
	s.Len(s.bridge.delivered, 1)
}

func (s *DispatcherSuite) TestLegacyBroadcastSecureChannelSkipsBridge() {
	s.dir.PutChannel(&model.Channel{
		ID:             "secretclub",
		Secure:         true,
		CredentialHash: credentialHash(testSecret, "hunter2"),
		OwnerID:        "p1",
	})

	s.dispatch(s.session, protocol.EventBroadcastMessage, s.chat(1, "secretclub", "p1", "Alice", "old client"))

	s.Len(s.session.broadcasts(), 1)
	s.Empty(s.bridge.delivered)
}

func (s *DispatcherSuite) TestBridgeInboundFansOutWithoutEcho() {
	other := &fakeSession{}
	s.attach(other)

	s.dispatcher.apply(command{
		kind: cmdBridgeInbound,
		chat: s.chat(protocol.ChatVersion, "global", "ext-1", "Discorder", "from outside"),
	})

	s.Len(s.session.broadcasts(), 1)
	s.Len(other.broadcasts(), 1)
	s.Empty(s.bridge.delivered)
}
