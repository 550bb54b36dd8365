package model

import (
	"strings"
	"time"
)

// ChannelID uniquely identifies a channel. It is the channel's name,
// lower-cased.
type ChannelID string

// ReservedChannelPrefix marks system channel names. Channels with this
// prefix cannot be created or closed through player actions.
const ReservedChannelPrefix = "global"

// Channel name length bounds for player-created channels.
const (
	ChannelNameMinLength = 3
	ChannelNameMaxLength = 20
)

// Channel is a named, possibly password-gated routing group for chat
// messages.
type Channel struct {
	ID          ChannelID `json:"id"`
	Description string    `json:"description"`
	Secure      bool      `json:"secure"`
	// CredentialHash is the keyed hash of the channel password.
	// Non-empty if and only if Secure is true.
	CredentialHash string   `json:"credentialHash"`
	OwnerID        PlayerID `json:"ownerId"`

	CreatedOn      time.Time  `json:"createdOn"`
	LastModifiedOn time.Time  `json:"lastModifiedOn"`
	RemovedOn      *time.Time `json:"removedOn,omitempty"`
}

// NormalizeChannelID lower-cases a channel name into its id.
func NormalizeChannelID(name string) ChannelID {
	return ChannelID(strings.ToLower(name))
}

// IsReservedChannelID reports whether the id belongs to the reserved
// system namespace.
func IsReservedChannelID(id ChannelID) bool {
	return strings.HasPrefix(string(id), ReservedChannelPrefix)
}

// Clone returns a deep copy of the channel.
func (c *Channel) Clone() *Channel {
	clone := *c
	if c.RemovedOn != nil {
		removed := *c.RemovedOn
		clone.RemovedOn = &removed
	}
	return &clone
}

// NewDefaultChannel returns a fresh default-valued system channel.
func NewDefaultChannel(id ChannelID) *Channel {
	return &Channel{
		ID:          id,
		Description: "default channel",
	}
}
