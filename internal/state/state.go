// Package state holds the client's view of the chat session: who is known,
// which channels are joined, what has been said and where attention is.
// It is owned by the reconciler; nothing here is goroutine safe.
package state

import (
	"palaver/internal/history"
	"palaver/internal/models"
)

// Contact is a directory entry for a known user. Entries are created on
// first presence or first direct message and never deleted mid-session;
// users who sign off stay listed with Online=false.
type Contact struct {
	Online  bool
	History *history.History
	HasNew  bool
}

// Channel is a registry entry for a joined channel. Members is maintained
// best effort from reflected join/leave events and may be incomplete.
type Channel struct {
	History *history.History
	Members map[string]bool
	HasNew  bool
}

// State is the composed session state.
type State struct {
	Nick   string
	Status models.SessionStatus
	Focus  models.Focus

	contacts map[string]*Contact
	channels map[string]*Channel
	// Channel insertion order. The leave fallback picks the first remaining
	// channel, so the ordering has to be stable.
	order []string

	historyLimit int
}

func New(historyLimit int) *State {
	s := &State{historyLimit: historyLimit}
	s.Reset()
	return s
}

// Reset returns the state to its empty initial value. Used on sign-out.
func (s *State) Reset() {
	s.Nick = ""
	s.Status = models.StatusConnecting
	s.Focus = models.Focus{}
	s.contacts = make(map[string]*Contact)
	s.channels = make(map[string]*Channel)
	s.order = nil
}

// Contact returns the directory entry for handle, if known.
func (s *State) Contact(handle string) (*Contact, bool) {
	c, ok := s.contacts[handle]
	return c, ok
}

// EnsureContact returns the directory entry for handle, creating an offline
// entry with empty history if none exists.
func (s *State) EnsureContact(handle string) *Contact {
	if c, ok := s.contacts[handle]; ok {
		return c
	}
	c := &Contact{History: history.New(s.historyLimit)}
	s.contacts[handle] = c
	return c
}

func (s *State) ContactCount() int {
	return len(s.contacts)
}

// Handles returns all known user handles in map order.
func (s *State) Handles() []string {
	handles := make([]string, 0, len(s.contacts))
	for h := range s.contacts {
		handles = append(handles, h)
	}
	return handles
}

// Channel returns the registry entry for name, if joined.
func (s *State) Channel(name string) (*Channel, bool) {
	c, ok := s.channels[name]
	return c, ok
}

// AddChannel registers a joined channel with empty history. Adding an
// already known channel is a no-op.
func (s *State) AddChannel(name string) *Channel {
	if c, ok := s.channels[name]; ok {
		return c
	}
	c := &Channel{
		History: history.New(s.historyLimit),
		Members: make(map[string]bool),
	}
	s.channels[name] = c
	s.order = append(s.order, name)
	return c
}

// RemoveChannel drops a channel from the registry.
func (s *State) RemoveChannel(name string) {
	if _, ok := s.channels[name]; !ok {
		return
	}
	delete(s.channels, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// FirstChannel returns the earliest joined channel still in the registry.
func (s *State) FirstChannel() (string, bool) {
	if len(s.order) == 0 {
		return "", false
	}
	return s.order[0], true
}

// ChannelNames returns joined channel names in insertion order.
func (s *State) ChannelNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *State) ChannelCount() int {
	return len(s.channels)
}

// Visible returns the message sequence of the focused conversation: the
// focused channel's history, else the focused user's history if that user
// is in the directory, else nothing.
func (s *State) Visible() []models.Message {
	switch s.Focus.Kind {
	case models.FocusChannel:
		if c, ok := s.channels[s.Focus.Name]; ok {
			return c.History.All()
		}
	case models.FocusUser:
		if c, ok := s.contacts[s.Focus.Name]; ok {
			return c.History.All()
		}
	}
	return []models.Message{}
}
