package transport

import (
	"palaver/internal/proto"
)

// write sends one envelope. gorilla connections allow a single concurrent
// writer, so the connection mutex covers the whole write.
func (c *Client) write(event string, payload any) error {
	env, err := proto.Marshal(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteJSON(env)
}

func (c *Client) EmitJoin(name string) error {
	return c.write(proto.EventJoin, name)
}

func (c *Client) EmitLeave(name string) error {
	return c.write(proto.EventLeave, name)
}

func (c *Client) EmitChannelMsg(room, text string) error {
	return c.write(proto.EventMsg, proto.ChannelMsg{Room: room, Text: text})
}

func (c *Client) EmitPrivateMsg(to, text string) error {
	return c.write(proto.EventPrivateMsg, proto.SendPrivateMsg{To: to, Text: text})
}
