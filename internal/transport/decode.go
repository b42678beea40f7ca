package transport

import (
	"encoding/json"

	"palaver/internal/content"
	"palaver/internal/engine"
	"palaver/internal/models"
	"palaver/internal/proto"
)

// decode turns a wire envelope into a reconciler event. Message text is
// sanitized here, before it can reach any state. Frames that cannot be
// decoded come out as EventInvalid for the reconciler to count and drop.
func (c *Client) decode(env proto.Envelope) engine.Event {
	invalid := engine.Event{Kind: engine.EventInvalid, Name: env.Event}

	switch env.Event {
	case proto.EventError:
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			return invalid
		}
		return engine.Event{Kind: engine.EventError, Err: text}

	case proto.EventOnline, proto.EventOffline, proto.EventJoin, proto.EventLeave:
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			return invalid
		}
		kind := map[string]engine.EventKind{
			proto.EventOnline:  engine.EventOnline,
			proto.EventOffline: engine.EventOffline,
			proto.EventJoin:    engine.EventJoin,
			proto.EventLeave:   engine.EventLeave,
		}[env.Event]
		return engine.Event{Kind: kind, Name: name}

	case proto.EventMsg:
		var m proto.ChannelMsg
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return invalid
		}
		return engine.Event{Kind: engine.EventChannelMsg, Msg: models.Message{
			Room: m.Room,
			From: m.From,
			Text: content.Clean(m.Text),
			TS:   c.now().Unix(),
		}}

	case proto.EventPrivateMsg:
		var m proto.PrivateMsg
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return invalid
		}
		return engine.Event{Kind: engine.EventPrivateMsg, Msg: models.Message{
			From: m.From,
			Text: content.Clean(m.Text),
			TS:   c.now().Unix(),
		}}

	case proto.EventOwnPrivateMsg:
		var m proto.OwnPrivateMsg
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return invalid
		}
		return engine.Event{Kind: engine.EventOwnPrivateMsg, Name: m.To, Msg: models.Message{
			Text: content.Clean(m.Text),
			TS:   c.now().Unix(),
		}}

	default:
		return invalid
	}
}
