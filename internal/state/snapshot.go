package state

import "palaver/internal/models"

// ContactView is a read-only copy of a directory entry.
type ContactView struct {
	Handle   string
	Online   bool
	HasNew   bool
	Messages []models.Message
}

// ChannelView is a read-only copy of a registry entry.
type ChannelView struct {
	Name     string
	HasNew   bool
	Members  []string
	Messages []models.Message
}

// Snapshot is a deep copy of the session state, safe to hand to a renderer
// running on another goroutine. Channels preserve join order.
type Snapshot struct {
	Nick     string
	Status   models.SessionStatus
	Focus    models.Focus
	Contacts map[string]ContactView
	Channels []ChannelView
	Visible  []models.Message
}

// Snapshot copies the full state. Must be called on the reconciler
// goroutine; the returned value is immutable afterwards.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Nick:     s.Nick,
		Status:   s.Status,
		Focus:    s.Focus,
		Contacts: make(map[string]ContactView, len(s.contacts)),
		Channels: make([]ChannelView, 0, len(s.order)),
		Visible:  s.Visible(),
	}

	for handle, c := range s.contacts {
		snap.Contacts[handle] = ContactView{
			Handle:   handle,
			Online:   c.Online,
			HasNew:   c.HasNew,
			Messages: c.History.All(),
		}
	}

	for _, name := range s.order {
		c := s.channels[name]
		members := make([]string, 0, len(c.Members))
		for m, present := range c.Members {
			if present {
				members = append(members, m)
			}
		}
		snap.Channels = append(snap.Channels, ChannelView{
			Name:     name,
			HasNew:   c.HasNew,
			Members:  members,
			Messages: c.History.All(),
		})
	}

	return snap
}

// ChannelByName looks up a channel view in the snapshot.
func (s Snapshot) ChannelByName(name string) (ChannelView, bool) {
	for _, c := range s.Channels {
		if c.Name == name {
			return c, true
		}
	}
	return ChannelView{}, false
}
