package relay

import (
	"log/slog"

	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/protocol"
	"github.com/relayio/chatrelay/internal/registry"
)

// Broadcast routing is version-tagged. Version 1 traffic predates
// channels and carries no authorization; it stays accepted for the
// fielded game-server plugins that still send it. Version 2 requires
// channel membership and suppresses the bridge for secure channels.
//
// The two behaviours are modelled as a variant so a future version adds
// a case instead of another nested conditional.
type broadcastVariant interface {
	route(d *Dispatcher, session registry.Session)
}

type legacyBroadcast struct {
	msg protocol.ChatMessage
}

type channelBroadcast struct {
	msg protocol.ChatMessage
}

func (d *Dispatcher) handleBroadcast(session registry.Session, msg protocol.ChatMessage) {
	var variant broadcastVariant
	if msg.ChatVersion == 1 {
		variant = legacyBroadcast{msg: msg}
	} else {
		variant = channelBroadcast{msg: msg}
	}
	variant.route(d, session)
}

// route for legacy traffic: every connected session receives the
// message unconditionally; the bridge only when the channel is unknown
// to the directory or known and not secure.
func (b legacyBroadcast) route(d *Dispatcher, _ registry.Session) {
	d.fanOut(b.msg)

	channel, known := d.dir.Channel(model.ChannelID(b.msg.ChatChannel))
	if !known || !channel.Secure {
		d.bridge.Deliver(b.msg)
	}
}

// route for current traffic: the sender must be a member of the target
// channel; secure channels never reach the bridge.
func (b channelBroadcast) route(d *Dispatcher, session registry.Session) {
	sender := d.materialize(protocol.PlayerRef{
		PlayerUID:  b.msg.PlayerUID,
		PlayerName: b.msg.PlayerName,
	})

	channel, known := d.dir.Channel(model.ChannelID(b.msg.ChatChannel))
	if !known {
		session.Send(protocol.ErrorResponse(sender, b.msg.ChatChannel, protocol.CodeChannelUnknown))
		return
	}
	if !sender.InChannel(channel.ID) {
		session.Send(protocol.ErrorResponse(sender, b.msg.ChatChannel, protocol.CodeChannelNotMember))
		return
	}

	d.fanOut(b.msg)
	if !channel.Secure {
		d.bridge.Deliver(b.msg)
	}
}

// fanOut forwards a chat message to every connected session.
func (d *Dispatcher) fanOut(msg protocol.ChatMessage) {
	d.logger.Debug("broadcasting chat message",
		slog.String("channel", msg.ChatChannel),
		slog.Int("sessions", len(d.sessions)))
	response := protocol.Response{Event: protocol.EventBroadcastMessage, Payload: msg}
	for session := range d.sessions {
		session.Send(response)
	}
}
