// Package proto defines the wire format spoken with the chat server. Every
// frame is a small JSON envelope naming the event and carrying its payload.
package proto

import "encoding/json"

// Envelope frames one event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Server-pushed event names. Connect and disconnect are not wire events;
// the transport synthesizes them from connection lifecycle.
const (
	EventError         = "error"
	EventOnline        = "online"
	EventOffline       = "offline"
	EventJoin          = "join"
	EventLeave         = "leave"
	EventMsg           = "msg"
	EventPrivateMsg    = "privateMsg"
	EventOwnPrivateMsg = "ownPrivateMsg"
)

// ChannelMsg is a message in a channel, inbound and outbound. From is unset
// on outbound frames; the server stamps the sender.
type ChannelMsg struct {
	Room string `json:"room"`
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// PrivateMsg is an inbound direct message.
type PrivateMsg struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// OwnPrivateMsg is the server's echo of a direct message we sent.
type OwnPrivateMsg struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendPrivateMsg is an outbound direct message request.
type SendPrivateMsg struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Marshal wraps a payload into an envelope for the given event.
func Marshal(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}
