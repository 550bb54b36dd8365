package protocol

import "time"

// PlayerRef identifies the player an action concerns. Every
// player-scoped payload embeds it.
type PlayerRef struct {
	PlayerName string `json:"playerName"`
	// PlayerUID is the game server's (long) numeric id, carried as a
	// string.
	PlayerUID string `json:"playerUID"`
}

// RegisterPayload is the payload of registerPlayer.
type RegisterPayload struct {
	PlayerRef
	Register bool `json:"register"`
}

// UnregisterPayload is the payload of unregisterPlayer.
type UnregisterPayload struct {
	PlayerRef
	Unregister bool `json:"unregister"`
}

// OnlinePayload is the payload of playerOnline and playerOffline.
type OnlinePayload struct {
	PlayerRef
}

// ChannelPayload is the payload of the channel actions
// (playerJoinChannel, playerLeaveChannel, playerCreateChannel,
// playerCloseChannel). Password is only meaningful for join and create.
type ChannelPayload struct {
	PlayerRef
	Channel  string `json:"channel"`
	Password string `json:"password,omitempty"`
}

// OverridePayload is the payload of playerOverrideChange.
type OverridePayload struct {
	PlayerRef
	Override bool `json:"override"`
}

// ChatVersion is the current chat protocol version. Version 1 traffic
// (no channel authorization) is still accepted for backwards
// compatibility.
const ChatVersion = 2

// ChatMessage is a broadcastMessage payload, relayed in both
// directions.
type ChatMessage struct {
	CreatedOn     time.Time `json:"createdOn"`
	ChatVersion   int       `json:"chatVersion"`
	ChatContent   string    `json:"chatContent"`
	ChatChannel   string    `json:"chatChannel"`
	PlayerName    string    `json:"playerName"`
	PlayerUID     string    `json:"playerUID"`
	SourceName    string    `json:"sourceName"`
	SourceIP      string    `json:"sourceIP"`
	SourceVersion string    `json:"sourceVersion"`
	// Attachment is a base64 encoded image, if any.
	Attachment string `json:"attachment,omitempty"`
}
