package engine

import "palaver/internal/models"

// EventKind identifies an inbound event from the transport.
type EventKind int

// EventInvalid marks a frame the transport could not decode. The reconciler
// counts and discards it.
const EventInvalid EventKind = -1

const (
	// EventConnect fires when the websocket comes up, first connect and
	// every reconnect alike.
	EventConnect EventKind = iota
	// EventDisconnect fires when the websocket drops for any reason.
	EventDisconnect
	// EventError carries a server-side error string.
	EventError
	// EventOnline marks a user as present.
	EventOnline
	// EventOffline marks a user as gone.
	EventOffline
	// EventJoin confirms a channel join.
	EventJoin
	// EventLeave confirms a channel leave.
	EventLeave
	// EventChannelMsg delivers a channel message.
	EventChannelMsg
	// EventPrivateMsg delivers a direct message from another user.
	EventPrivateMsg
	// EventOwnPrivateMsg is the server echo of a direct message we sent.
	EventOwnPrivateMsg
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventError:
		return "error"
	case EventOnline:
		return "online"
	case EventOffline:
		return "offline"
	case EventJoin:
		return "join"
	case EventLeave:
		return "leave"
	case EventChannelMsg:
		return "msg"
	case EventPrivateMsg:
		return "privateMsg"
	case EventOwnPrivateMsg:
		return "ownPrivateMsg"
	case EventInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Event is one inbound occurrence to reconcile. Name carries the channel
// name or user handle for the events that have one; Msg carries message
// payloads; Err carries the server error text. ConnID tags connect events
// with the transport's connection-attempt id so log lines from the
// directory load can be correlated with the dial that triggered it.
type Event struct {
	Kind   EventKind
	Name   string
	Err    string
	Msg    models.Message
	ConnID string
}
