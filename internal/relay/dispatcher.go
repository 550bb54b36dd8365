// Package relay implements the authorization/dispatch state machine
// that turns inbound envelopes into permitted side effects: directory
// mutations, persistence writes, and fan-out to sessions and the
// bridge.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/relayio/chatrelay/internal/bridge"
	"github.com/relayio/chatrelay/internal/dependencies/clock"
	"github.com/relayio/chatrelay/internal/directory"
	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/protocol"
	"github.com/relayio/chatrelay/internal/registry"
	"github.com/relayio/chatrelay/internal/storage"
)

// Dispatcher drains one queue on a single goroutine: one inbound
// envelope is fully handled before the next is dequeued, so directory
// access inside a handler is atomic with respect to other handlers. No
// locks guard the directory.
//
// Steady-state persistence is asynchronous and fire-and-forget: the
// in-memory mutation and the response to the session happen before the
// write's outcome is known. A failed write is logged and leaves the
// directory authoritative until the next successful save.
type Dispatcher struct {
	dir    *directory.Directory
	conns  *registry.Connections
	store  storage.RecordStore
	bridge bridge.Bridge
	secret string
	logger *slog.Logger
	clock  clock.Clock

	queue    chan command
	sessions map[registry.Session]struct{}

	// pending tracks in-flight persistence writes so shutdown (and
	// tests) can wait them out.
	pending sync.WaitGroup
}

type commandKind int

const (
	cmdAttach commandKind = iota
	cmdDetach
	cmdEnvelope
	cmdBridgeInbound
)

type command struct {
	kind     commandKind
	session  registry.Session
	envelope protocol.Envelope
	chat     protocol.ChatMessage
}

const queueDepth = 256

// Config wires the dispatcher's collaborators.
type Config struct {
	Directory *directory.Directory
	Registry  *registry.Connections
	Store     storage.RecordStore
	Bridge    bridge.Bridge
	// Secret is the process-wide key for channel credential hashing.
	Secret string
	Logger *slog.Logger
	Clock  clock.Clock
}

// New creates a dispatcher. Run must be called before traffic is
// queued.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		dir:      cfg.Directory,
		conns:    cfg.Registry,
		store:    cfg.Store,
		bridge:   cfg.Bridge,
		secret:   cfg.Secret,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		queue:    make(chan command, queueDepth),
		sessions: make(map[registry.Session]struct{}),
	}
}

// Run processes queued work until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("dispatcher started")
	for {
		select {
		case cmd := <-d.queue:
			d.apply(cmd)
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped")
			return
		}
	}
}

// Attach registers a live session for broadcast fan-out.
func (d *Dispatcher) Attach(session registry.Session) {
	d.queue <- command{kind: cmdAttach, session: session}
}

// Detach removes a session from fan-out.
func (d *Dispatcher) Detach(session registry.Session) {
	d.queue <- command{kind: cmdDetach, session: session}
}

// Dispatch queues one inbound envelope from a session.
func (d *Dispatcher) Dispatch(session registry.Session, envelope protocol.Envelope) {
	d.queue <- command{kind: cmdEnvelope, session: session, envelope: envelope}
}

// InjectBridgeMessage queues a chat message arriving from the external
// network for fan-out to every connected session. Bridge traffic is not
// echoed back to the bridge.
func (d *Dispatcher) InjectBridgeMessage(msg protocol.ChatMessage) {
	d.queue <- command{kind: cmdBridgeInbound, chat: msg}
}

// Flush waits for in-flight persistence writes. Used on shutdown and in
// tests.
func (d *Dispatcher) Flush() {
	d.pending.Wait()
}

func (d *Dispatcher) apply(cmd command) {
	switch cmd.kind {
	case cmdAttach:
		d.sessions[cmd.session] = struct{}{}
		d.logger.Debug("session attached", slog.Int("sessions", len(d.sessions)))
	case cmdDetach:
		delete(d.sessions, cmd.session)
		d.logger.Debug("session detached", slog.Int("sessions", len(d.sessions)))
	case cmdEnvelope:
		d.handle(cmd.session, cmd.envelope)
	case cmdBridgeInbound:
		d.fanOut(cmd.chat)
	}
}

// handle runs the handler for one envelope's event tag.
func (d *Dispatcher) handle(session registry.Session, envelope protocol.Envelope) {
	switch envelope.Event {
	case protocol.EventBroadcastMessage:
		decode(d, envelope, func(msg protocol.ChatMessage) { d.handleBroadcast(session, msg) })
	case protocol.EventRegisterPlayer:
		decode(d, envelope, func(p protocol.RegisterPayload) { d.handleRegister(session, p) })
	case protocol.EventUnregisterPlayer:
		decode(d, envelope, func(p protocol.UnregisterPayload) { d.handleUnregister(session, p) })
	case protocol.EventPlayerOnline:
		decode(d, envelope, func(p protocol.OnlinePayload) { d.handleOnline(session, p) })
	case protocol.EventPlayerOffline:
		decode(d, envelope, func(p protocol.OnlinePayload) { d.handleOffline(session, p) })
	case protocol.EventJoinChannel:
		decode(d, envelope, func(p protocol.ChannelPayload) { d.handleJoinChannel(session, p) })
	case protocol.EventLeaveChannel:
		decode(d, envelope, func(p protocol.ChannelPayload) { d.handleLeaveChannel(session, p) })
	case protocol.EventCloseChannel:
		decode(d, envelope, func(p protocol.ChannelPayload) { d.handleCloseChannel(session, p) })
	case protocol.EventCreateChannel:
		decode(d, envelope, func(p protocol.ChannelPayload) { d.handleCreateChannel(session, p) })
	case protocol.EventOverrideChange:
		decode(d, envelope, func(p protocol.OverridePayload) { d.handleOverrideChange(session, p) })
	default:
		d.logger.Warn("unknown message event", slog.String("event", string(envelope.Event)))
	}
}

// decode unmarshals an envelope payload, logging and dropping the
// envelope on malformed input.
func decode[T any](d *Dispatcher, envelope protocol.Envelope, fn func(T)) {
	var payload T
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		d.logger.Warn("malformed payload",
			slog.String("event", string(envelope.Event)),
			slog.String("error", err.Error()))
		return
	}
	fn(payload)
}

// materialize returns the directory's player for the ref, creating a
// default-valued anonymous player on first reference. Anonymous players
// are not persisted until they register.
func (d *Dispatcher) materialize(ref protocol.PlayerRef) *model.Player {
	id := model.PlayerID(ref.PlayerUID)
	if player, ok := d.dir.Player(id); ok {
		return player
	}
	player := model.NewAnonymousPlayer(id, ref.PlayerName)
	d.dir.PutPlayer(player)
	return player
}

// Player handlers

func (d *Dispatcher) handleRegister(session registry.Session, payload protocol.RegisterPayload) {
	if !payload.Register {
		return
	}
	player := d.materialize(payload.PlayerRef)

	if player.Registered {
		session.Send(protocol.InfoResponse(player, protocol.CodeAlreadyRegistered))
	} else {
		player.Registered = true
		session.Send(protocol.SuccessResponse(player, nil, protocol.CodeRegisterSuccess))
	}

	d.persistPlayer(player)
}

func (d *Dispatcher) handleUnregister(session registry.Session, payload protocol.UnregisterPayload) {
	if !payload.Unregister {
		return
	}
	player := d.materialize(payload.PlayerRef)

	ownsChannel := false
	d.dir.EachChannel(func(channel *model.Channel) {
		ownsChannel = ownsChannel || channel.OwnerID == player.ID
	})
	if ownsChannel {
		// A channel owner must close their channels before unregistering.
		session.Send(protocol.ErrorResponse(player, nil, protocol.CodeUnregisterChannelOwner))
		return
	}

	if player.Registered {
		player.Registered = false
		session.Send(protocol.SuccessResponse(player, nil, protocol.CodeUnregisterSuccess))
	} else {
		session.Send(protocol.InfoResponse(player, protocol.CodeAlreadyUnregistered))
	}

	d.deletePlayerRecord(player.ID)
}

func (d *Dispatcher) handleOnline(session registry.Session, payload protocol.OnlinePayload) {
	player := d.materialize(payload.PlayerRef)
	player.Online = true
	d.conns.Bind(player.ID, session)

	if player.Registered {
		d.persistPlayer(player)
	}

	session.Send(protocol.Response{Event: protocol.EventPlayerOnline, Payload: player})
}

func (d *Dispatcher) handleOffline(_ registry.Session, payload protocol.OnlinePayload) {
	player, ok := d.dir.Player(model.PlayerID(payload.PlayerUID))
	if !ok {
		return
	}

	if player.Ephemeral() {
		// Anonymous and membership-less: must not survive the disconnect.
		d.dir.RemovePlayer(player.ID)
		return
	}

	player.Online = false
	if player.Registered {
		d.persistPlayer(player)
	}
}

func (d *Dispatcher) handleOverrideChange(session registry.Session, payload protocol.OverridePayload) {
	player := d.materialize(payload.PlayerRef)
	player.Override = payload.Override

	session.Send(protocol.Response{
		Event:   protocol.EventOverrideChange,
		Payload: player,
		Subject: player.Override,
	})

	if player.Registered {
		d.persistPlayer(player)
	}
}

// Channel handlers

func (d *Dispatcher) handleJoinChannel(session registry.Session, payload protocol.ChannelPayload) {
	player := d.materialize(payload.PlayerRef)

	channel, ok := d.dir.Channel(model.ChannelID(payload.Channel))
	if !ok {
		d.logger.Debug("join of unknown channel",
			slog.String("player", string(player.ID)),
			slog.String("channel", payload.Channel))
		session.Send(protocol.ErrorResponse(player, payload.Channel, protocol.CodeChannelUnknown))
		return
	}

	if channel.Secure && !credentialMatch(d.secret, payload.Password, channel.CredentialHash) {
		session.Send(protocol.ErrorResponse(player, payload.Channel, protocol.CodeJoinNoAccess))
		return
	}

	if !player.InChannel(channel.ID) {
		player.JoinChannel(channel.ID)
		if player.Registered {
			d.persistPlayer(player)
		}
	}

	session.Send(protocol.Response{Event: protocol.EventJoinChannel, Payload: player})
	session.Send(protocol.SuccessResponse(player, payload.Channel, protocol.CodeJoinSuccess))
}

func (d *Dispatcher) handleLeaveChannel(session registry.Session, payload protocol.ChannelPayload) {
	player := d.materialize(payload.PlayerRef)

	channel, ok := d.dir.Channel(model.ChannelID(payload.Channel))
	if !ok {
		session.Send(protocol.ErrorResponse(player, payload.Channel, protocol.CodeChannelUnknown))
		return
	}

	if channel.OwnerID == player.ID {
		session.Send(protocol.ErrorResponse(player, payload.Channel, protocol.CodeLeaveOwner))
		return
	}

	if player.LeaveChannel(channel.ID) {
		if player.Registered {
			d.persistPlayer(player)
		}
		session.Send(protocol.SuccessResponse(player, payload.Channel, protocol.CodeLeaveSuccess))
	}

	session.Send(protocol.Response{Event: protocol.EventLeaveChannel, Payload: player})
}

func (d *Dispatcher) handleCreateChannel(session registry.Session, payload protocol.ChannelPayload) {
	player := d.materialize(payload.PlayerRef)
	id := model.NormalizeChannelID(payload.Channel)

	if !player.Registered {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCreateNotRegistered))
		return
	}
	if model.IsReservedChannelID(id) {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCreateNoGlobal))
		return
	}
	if len(id) < model.ChannelNameMinLength || len(id) > model.ChannelNameMaxLength {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCreateLength))
		return
	}
	if _, exists := d.dir.Channel(id); exists {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCreateExists))
		return
	}

	channel := &model.Channel{
		ID:          id,
		Description: "Channel created by " + player.DisplayName,
		OwnerID:     player.ID,
	}
	if payload.Password != "" {
		channel.Secure = true
		channel.CredentialHash = credentialHash(d.secret, payload.Password)
	}

	d.dir.PutChannel(channel)
	player.JoinChannel(id)

	session.Send(protocol.SuccessResponse(player, id, protocol.CodeCreateSuccess))

	d.persistChannel(channel)
	d.persistPlayer(player)
}

func (d *Dispatcher) handleCloseChannel(session registry.Session, payload protocol.ChannelPayload) {
	player := d.materialize(payload.PlayerRef)
	id := model.NormalizeChannelID(payload.Channel)

	channel, ok := d.dir.Channel(id)
	if !ok {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCloseNotExists))
		return
	}
	// Reserved channels have no owner and are never player-closable.
	if model.IsReservedChannelID(id) || channel.OwnerID != player.ID {
		session.Send(protocol.ErrorResponse(player, id, protocol.CodeCloseNotOwner))
		return
	}

	d.dir.RemoveChannel(id)
	d.deleteChannelRecord(id)

	if player.LeaveChannel(id) && player.Registered {
		d.persistPlayer(player)
	}
	session.Send(protocol.SuccessResponse(player, id, protocol.CodeCloseSuccess))

	// Cascade: strip the closed channel from every remaining membership
	// and tell the members who are online right now.
	d.dir.EachPlayer(func(member *model.Player) {
		if !member.LeaveChannel(id) {
			return
		}
		if member.Registered {
			d.persistPlayer(member)
		}
		if member.Online {
			if target, bound := d.conns.Lookup(member.ID); bound {
				target.Send(protocol.ErrorResponse(member, id, protocol.CodeChannelClosed))
			}
		}
	})
}

// Persistence helpers. All of these are fire-and-forget: the handler
// has already mutated the directory and answered the session.

func (d *Dispatcher) persistPlayer(player *model.Player) {
	snapshot := player.Clone()
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if _, err := d.store.SavePlayer(context.Background(), snapshot); err != nil {
			d.logger.Error("player persistence failed",
				slog.String("player", string(snapshot.ID)),
				slog.String("error", err.Error()))
		}
	}()
}

func (d *Dispatcher) persistChannel(channel *model.Channel) {
	snapshot := channel.Clone()
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if _, err := d.store.SaveChannel(context.Background(), snapshot); err != nil {
			d.logger.Error("channel persistence failed",
				slog.String("channel", string(snapshot.ID)),
				slog.String("error", err.Error()))
		}
	}()
}

func (d *Dispatcher) deletePlayerRecord(id model.PlayerID) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if err := d.store.DeletePlayer(context.Background(), id); err != nil {
			d.logger.Error("player record delete failed",
				slog.String("player", string(id)),
				slog.String("error", err.Error()))
		}
	}()
}

func (d *Dispatcher) deleteChannelRecord(id model.ChannelID) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if err := d.store.DeleteChannel(context.Background(), id); err != nil {
			d.logger.Error("channel record delete failed",
				slog.String("channel", string(id)),
				slog.String("error", err.Error()))
		}
	}()
}
