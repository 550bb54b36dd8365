package model

import (
	"slices"
	"time"
)

// PlayerID uniquely identifies a player across the system.
// It is an opaque identifier assigned by the game server.
type PlayerID string

// Player represents a game-server participant known to the relay.
//
// A player with Registered=false and no channel memberships is
// ephemeral: it is dropped from the directory when it goes offline and
// is never persisted.
type Player struct {
	ID          PlayerID    `json:"id"`
	DisplayName string      `json:"displayName"`
	Registered  bool        `json:"registered"` // persist-on-change when true
	Channels    []ChannelID `json:"channels"`
	Online      bool        `json:"online"`
	Override    bool        `json:"override"`

	CreatedOn      time.Time  `json:"createdOn"`
	LastModifiedOn time.Time  `json:"lastModifiedOn"`
	RemovedOn      *time.Time `json:"removedOn,omitempty"`
}

// NewAnonymousPlayer returns a fresh default-valued player for an id
// seen for the first time. Anonymous players are not persisted until
// they register.
func NewAnonymousPlayer(id PlayerID, displayName string) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		Channels:    []ChannelID{},
	}
}

// InChannel reports whether the player is a member of the channel.
func (p *Player) InChannel(id ChannelID) bool {
	return slices.Contains(p.Channels, id)
}

// JoinChannel adds the channel to the player's membership set.
// Joining a channel the player is already in is a no-op.
func (p *Player) JoinChannel(id ChannelID) {
	if !p.InChannel(id) {
		p.Channels = append(p.Channels, id)
	}
}

// LeaveChannel removes the channel from the player's membership set and
// reports whether the player was a member.
func (p *Player) LeaveChannel(id ChannelID) bool {
	before := len(p.Channels)
	p.Channels = slices.DeleteFunc(p.Channels, func(c ChannelID) bool {
		return c == id
	})
	return len(p.Channels) != before
}

// Ephemeral reports whether the player must not survive a disconnect.
func (p *Player) Ephemeral() bool {
	return !p.Registered && len(p.Channels) == 0
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	c.Channels = slices.Clone(p.Channels)
	if p.RemovedOn != nil {
		removed := *p.RemovedOn
		c.RemovedOn = &removed
	}
	return &c
}
