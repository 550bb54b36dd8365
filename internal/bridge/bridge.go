// Package bridge delivers chat traffic to the external chat network.
// Delivery is best-effort: the relay core never observes a return
// value.
package bridge

import "github.com/relayio/chatrelay/internal/protocol"

// Bridge is the external chat network integration. Deliver is fire and
// forget; failures are the implementation's concern.
type Bridge interface {
	Deliver(msg protocol.ChatMessage)
}

// Nop is a bridge that drops everything, used when bridging is
// disabled.
type Nop struct{}

func (Nop) Deliver(protocol.ChatMessage) {}
