// Package protocol defines the wire format exchanged with game-server
// sessions: tagged envelopes, their payloads, and the stable response
// codes.
package protocol

import "encoding/json"

// EventTag identifies the kind of message an envelope carries.
type EventTag string

// Inbound event tags.
const (
	EventBroadcastMessage EventTag = "broadcastMessage"
	EventRegisterPlayer   EventTag = "registerPlayer"
	EventUnregisterPlayer EventTag = "unregisterPlayer"
	EventPlayerOnline     EventTag = "playerOnline"
	EventPlayerOffline    EventTag = "playerOffline"
	EventJoinChannel      EventTag = "playerJoinChannel"
	EventLeaveChannel     EventTag = "playerLeaveChannel"
	EventCloseChannel     EventTag = "playerCloseChannel"
	EventCreateChannel    EventTag = "playerCreateChannel"
	EventOverrideChange   EventTag = "playerOverrideChange"
)

// Outbound-only event tags.
const (
	EventResponseError   EventTag = "playerResponseError"
	EventResponseSuccess EventTag = "playerResponseSuccess"
	EventResponseInfo    EventTag = "playerResponseInfo"
)

// Envelope is an inbound message as received from a session. The
// payload stays raw until the handler for the event tag decodes it.
type Envelope struct {
	Event   EventTag        `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Response is an outbound message. Payload carries the affected player
// (or a chat message for broadcast echoes); Subject is the channel id
// the response concerns, where one applies.
type Response struct {
	Event       EventTag `json:"event"`
	Payload     any      `json:"payload"`
	Subject     any      `json:"subject,omitempty"`
	ErrorCode   Code     `json:"errorCode,omitempty"`
	SuccessCode Code     `json:"successCode,omitempty"`
	InfoCode    Code     `json:"infoCode,omitempty"`
}

// ErrorResponse builds a playerResponseError envelope.
func ErrorResponse(payload any, subject any, code Code) Response {
	return Response{Event: EventResponseError, Payload: payload, Subject: subject, ErrorCode: code}
}

// SuccessResponse builds a playerResponseSuccess envelope.
func SuccessResponse(payload any, subject any, code Code) Response {
	return Response{Event: EventResponseSuccess, Payload: payload, Subject: subject, SuccessCode: code}
}

// InfoResponse builds a playerResponseInfo envelope.
func InfoResponse(payload any, code Code) Response {
	return Response{Event: EventResponseInfo, Payload: payload, InfoCode: code}
}
