package signal

import "encoding/json"

// Client -> server events.
const (
	EvRegister           = "register"
	EvCreateRoom         = "createRoom"
	EvJoinRoom           = "joinRoom"
	EvCallUser           = "callUser"
	EvAnswerCall         = "answerCall"
	EvRejectCall         = "rejectCall"
	EvEndCall            = "endCall"
	EvSignal             = "signal"
	EvScreenShareStarted = "screenShareStarted"
	EvScreenShareStopped = "screenShareStopped"
)

// Server -> client events.
const (
	EvMe           = "me"
	EvRoomCreated  = "roomCreated"
	EvRoomJoined   = "roomJoined"
	EvRoomError    = "roomError"
	EvUserJoined   = "userJoined"
	EvUserLeft     = "userLeft"
	EvRoomExpired  = "roomExpired"
	EvCallAccepted = "callAccepted"
	EvCallRejected = "callRejected"
	EvCallEnded    = "callEnded"
)

// Room-error codes surfaced to the initiating connection.
const (
	CodeRoomNotFound = "ROOM_NOT_FOUND"
	CodeRoomFull     = "ROOM_FULL"
	CodeExhausted    = "CodeExhausted"
)

// ClientEvents lists every inbound event a transport should subscribe to.
var ClientEvents = []string{
	EvRegister,
	EvCreateRoom,
	EvJoinRoom,
	EvCallUser,
	EvAnswerCall,
	EvRejectCall,
	EvEndCall,
	EvSignal,
	EvScreenShareStarted,
	EvScreenShareStopped,
}

// Inbound payloads. Fields are parsed tolerantly: a missing or malformed
// field stays at its zero value, it never aborts the connection. Signaling
// blobs (SDP offers, ICE candidates) are kept as json.RawMessage and relayed
// verbatim; their structure belongs to the browsers' WebRTC stacks.
type registerPayload struct {
	Name string `json:"name"`
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type callUserPayload struct {
	UserToCall string          `json:"userToCall"`
	SignalData json.RawMessage `json:"signalData"`
	From       string          `json:"from"`
	Name       string          `json:"name"`
}

type answerCallPayload struct {
	Signal json.RawMessage `json:"signal"`
	To     string          `json:"to"`
}

type targetPayload struct {
	To string `json:"to"`
}

type signalPayload struct {
	Signal json.RawMessage `json:"signal"`
	To     string          `json:"to"`
}

type screenSharePayload struct {
	From   string `json:"from"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

// Outbound payloads.
type RoomCreatedPayload struct {
	RoomID   string `json:"roomId"`
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
	ShareURL string `json:"shareUrl"`
}

type RoomJoinedPayload struct {
	RoomID    string `json:"roomId"`
	RoomCode  string `json:"roomCode"`
	Message   string `json:"message"`
	OtherUser string `json:"otherUser,omitempty"`
	CreatedBy string `json:"createdBy"`
}

type RoomErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type UserJoinedPayload struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
	RoomCode string `json:"roomCode"`
}

type UserLeftPayload struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type RoomExpiredPayload struct {
	Message  string `json:"message"`
	RoomCode string `json:"roomCode"`
}

type IncomingCallPayload struct {
	Signal   json.RawMessage `json:"signal"`
	From     string          `json:"from"`
	Name     string          `json:"name"`
	CallerID string          `json:"callerId"`
}

type CallAcceptedPayload struct {
	Signal json.RawMessage `json:"signal"`
}

type CallRejectedPayload struct {
	Reason string `json:"reason"`
}

type SignalForwardPayload struct {
	Signal json.RawMessage `json:"signal"`
	From   string          `json:"from"`
}

type ScreenShareForwardPayload struct {
	From   string `json:"from"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}
