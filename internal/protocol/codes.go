package protocol

// Code is a stable response code surfaced to the originating session.
type Code string

const (
	CodeChannelUnknown   Code = "RELAY_CHANNEL_UNKNOWN"
	CodeChannelNotMember Code = "RELAY_CHANNEL_NOTMEMBER"

	CodeCreateNotRegistered Code = "RELAY_CREATE_NOTREGISTERED"
	CodeCreateNoGlobal      Code = "RELAY_CREATE_NOGLOBAL"
	CodeCreateLength        Code = "RELAY_CREATE_LENGTH"
	CodeCreateExists        Code = "RELAY_CREATE_EXISTS"
	CodeCreateSuccess       Code = "RELAY_CREATE_SUCCESS"

	CodeJoinNoAccess Code = "RELAY_JOIN_NOACCESS"
	CodeJoinSuccess  Code = "RELAY_JOIN_SUCCESS"

	CodeLeaveOwner   Code = "RELAY_LEAVE_OWNER"
	CodeLeaveSuccess Code = "RELAY_LEAVE_SUCCESS"

	CodeCloseNotExists Code = "RELAY_CH_CLOSE_NOTEXISTS"
	CodeCloseNotOwner  Code = "RELAY_CH_CLOSE_NOTOWNER"
	CodeCloseSuccess   Code = "RELAY_CH_CLOSE_SUCCESS"
	// CodeChannelClosed is pushed to members of a channel that was just
	// closed by its owner.
	CodeChannelClosed Code = "RELAY_CH_CLOSED"

	CodeUnregisterChannelOwner Code = "RELAY_UNREGISTER_CHOWNER"
	CodeRegisterSuccess        Code = "RELAY_SUCCESS_REGISTER"
	CodeAlreadyRegistered      Code = "RELAY_INFO_REGISTERED"
	CodeUnregisterSuccess      Code = "RELAY_SUCCESS_UNREGISTER"
	CodeAlreadyUnregistered    Code = "RELAY_INFO_UNREGISTERED"
)
