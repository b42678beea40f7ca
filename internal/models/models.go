package models

// SessionStatus tracks the connection lifecycle of the local session.
type SessionStatus string

const (
	StatusConnecting           SessionStatus = "connecting"
	StatusConnected            SessionStatus = "connected"
	StatusDisconnectedByServer SessionStatus = "disconnectedByServer"
	StatusDisconnectedByClient SessionStatus = "disconnectedByClient"
	// StatusDirectoryLoadFailed means the websocket came up but the initial
	// /users fetch failed. The session is not usable until a reconnect.
	StatusDirectoryLoadFailed SessionStatus = "directoryLoadFailed"
)

// Message is a single chat message. Room is empty for direct messages.
type Message struct {
	Room string `json:"room,omitempty"`
	From string `json:"from"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// FocusKind says what kind of conversation is selected for display.
type FocusKind string

const (
	FocusNone    FocusKind = ""
	FocusChannel FocusKind = "channel"
	FocusUser    FocusKind = "user"
)

// Focus is the single conversation currently selected. Holding the kind and
// name in one value makes channel/user mutual exclusion structural.
type Focus struct {
	Kind FocusKind
	Name string
}

func (f Focus) IsChannel(name string) bool {
	return f.Kind == FocusChannel && f.Name == name
}

func (f Focus) IsUser(handle string) bool {
	return f.Kind == FocusUser && f.Name == handle
}

func (f Focus) None() bool {
	return f.Kind == FocusNone
}
