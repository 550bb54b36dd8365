package redis

import (
	"fmt"

	"github.com/relayio/chatrelay/internal/model"
)

// Key prefix for all relay data
const keyPrefix = "chatrelay"

// playerKey returns the Redis key for a Player document
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// channelKey returns the Redis key for a Channel document
func channelKey(id model.ChannelID) string {
	return fmt.Sprintf("%s:channel:%s", keyPrefix, id)
}

// playerKeyPattern matches every Player document key
func playerKeyPattern() string {
	return fmt.Sprintf("%s:player:*", keyPrefix)
}

// channelKeyPattern matches every Channel document key
func channelKeyPattern() string {
	return fmt.Sprintf("%s:channel:*", keyPrefix)
}
