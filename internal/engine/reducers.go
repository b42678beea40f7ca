package engine

import (
	"palaver/internal/content"
	"palaver/internal/models"
)

// apply dispatches one inbound event to its reducer. Runs on the engine
// goroutine; each reducer is a complete atomic state transition.
func (e *Engine) apply(ev Event) {
	switch ev.Kind {
	case EventConnect:
		e.handleConnect(ev.ConnID)
	case EventDisconnect:
		e.handleDisconnect()
	case EventError:
		e.handleError(ev.Err)
	case EventOnline:
		e.handleOnline(ev)
	case EventOffline:
		e.handleOffline(ev)
	case EventJoin:
		e.handleJoin(ev)
	case EventLeave:
		e.handleLeave(ev)
	case EventChannelMsg:
		e.handleChannelMsg(ev)
	case EventPrivateMsg:
		e.handlePrivateMsg(ev)
	case EventOwnPrivateMsg:
		e.handleOwnPrivateMsg(ev)
	default:
		e.drop(ev, "unknown event kind")
	}
}

// handleConnect kicks off the directory load. The fetch itself runs off the
// engine goroutine; its result comes back through the mailbox stamped with
// the epoch it started under, so a result that lands after a disconnect or
// sign-out is discarded instead of resurrecting a dead session.
func (e *Engine) handleConnect(connID string) {
	e.epoch++
	epoch := e.epoch

	e.log.Info().Uint64("epoch", epoch).Str("conn", connID).Msg("connected, loading directory")

	go func() {
		users, err := e.dir.ListUsers(e.runCtx)
		select {
		case e.mailbox <- func() { e.applyDirectory(epoch, connID, users, err) }:
		case <-e.done:
		}
	}()
}

func (e *Engine) applyDirectory(epoch uint64, connID string, users []string, err error) {
	if epoch != e.epoch {
		e.log.Debug().Uint64("epoch", epoch).Uint64("current", e.epoch).Str("conn", connID).Msg("stale directory result discarded")
		return
	}

	if err != nil {
		e.st.Status = models.StatusDirectoryLoadFailed
		e.log.Error().Err(err).Str("conn", connID).Msg("directory load failed")
		e.notifier.Alert("Error retrieving users")
		return
	}

	for _, handle := range users {
		if content.ValidateName(handle) != nil {
			continue
		}
		e.st.EnsureContact(handle)
	}

	nick, prefErr := e.prefs.Nick()
	if prefErr != nil {
		e.log.Warn().Err(prefErr).Msg("failed to read cached nick")
	}
	if nick == "" {
		nick = e.cfg.Nick
		if nick != "" {
			if err := e.prefs.SetNick(nick); err != nil {
				e.log.Warn().Err(err).Msg("failed to cache nick")
			}
		}
	}

	e.st.Nick = nick
	e.st.Status = models.StatusConnected
	e.log.Info().Str("nick", nick).Int("users", len(users)).Str("conn", connID).Msg("directory loaded")
}

func (e *Engine) handleDisconnect() {
	// A sign-out already set DisconnectedByClient and bumped the epoch;
	// the drop that follows our own Close must not invalidate the
	// pending logout confirmation.
	if e.st.Status == models.StatusDisconnectedByClient {
		return
	}

	// Invalidate any directory fetch still in flight; its result belongs
	// to the connection that just died.
	e.epoch++

	e.st.Status = models.StatusDisconnectedByServer
	e.log.Info().Msg("disconnected by server")
}

func (e *Engine) handleError(errText string) {
	if errText == "Unauthorized" {
		e.notifier.SignIn("Please sign in to enter the chat.")
		return
	}
	e.notifier.Alert("We've encountered an unexpected error: " + errText)
}

func (e *Engine) handleOnline(ev Event) {
	if content.ValidateName(ev.Name) != nil {
		e.drop(ev, "invalid handle")
		return
	}
	e.st.EnsureContact(ev.Name).Online = true
}

// handleOffline tolerates an offline event for a handle we never saw; the
// stream carries no ordering guarantees across users.
func (e *Engine) handleOffline(ev Event) {
	if content.ValidateName(ev.Name) != nil {
		e.drop(ev, "invalid handle")
		return
	}
	e.st.EnsureContact(ev.Name).Online = false
}

// handleJoin confirms a channel join: the entry is created here, never
// optimistically at intent time, and focus moves to the new channel.
func (e *Engine) handleJoin(ev Event) {
	if content.ValidateName(ev.Name) != nil {
		e.drop(ev, "invalid channel name")
		return
	}

	ch := e.st.AddChannel(ev.Name)
	if e.st.Nick != "" {
		ch.Members[e.st.Nick] = true
	}

	e.st.Focus = models.Focus{Kind: models.FocusChannel, Name: ev.Name}
	if err := e.prefs.SetActiveChannel(ev.Name); err != nil {
		e.log.Warn().Err(err).Msg("failed to persist focus")
	}
	e.log.Info().Str("channel", ev.Name).Msg("joined channel")
}

// handleLeave drops the channel and, if it was focused, re-focuses on the
// first remaining channel, falling back to the local user's own DM view so
// the UI always has a conversation to render.
func (e *Engine) handleLeave(ev Event) {
	if _, ok := e.st.Channel(ev.Name); !ok {
		e.drop(ev, "leave for unknown channel")
		return
	}

	e.st.RemoveChannel(ev.Name)
	e.log.Info().Str("channel", ev.Name).Msg("left channel")

	if !e.st.Focus.IsChannel(ev.Name) {
		return
	}

	if first, ok := e.st.FirstChannel(); ok {
		e.st.Focus = models.Focus{Kind: models.FocusChannel, Name: first}
		if err := e.prefs.SetActiveChannel(first); err != nil {
			e.log.Warn().Err(err).Msg("failed to persist focus")
		}
		return
	}

	e.st.Focus = models.Focus{Kind: models.FocusUser, Name: e.st.Nick}
	if err := e.prefs.ClearFocus(); err != nil {
		e.log.Warn().Err(err).Msg("failed to clear persisted focus")
	}
}

// handleChannelMsg appends to the channel history. A message for a channel
// we never joined is not actionable and is dropped.
func (e *Engine) handleChannelMsg(ev Event) {
	ch, ok := e.st.Channel(ev.Msg.Room)
	if !ok {
		e.drop(ev, "message for unknown channel")
		return
	}

	ch.History.Append(ev.Msg)
	if ev.Msg.From != "" {
		ch.Members[ev.Msg.From] = true
	}

	// Our own reflected messages never flag the channel unread.
	if !e.st.Focus.IsChannel(ev.Msg.Room) && ev.Msg.From != e.st.Nick {
		ch.HasNew = true
	}
}

func (e *Engine) handlePrivateMsg(ev Event) {
	if content.ValidateName(ev.Msg.From) != nil {
		e.drop(ev, "invalid sender handle")
		return
	}

	c := e.st.EnsureContact(ev.Msg.From)
	c.History.Append(models.Message{From: ev.Msg.From, Text: ev.Msg.Text, TS: ev.Msg.TS})

	if !e.st.Focus.IsUser(ev.Msg.From) {
		c.HasNew = true
	}
}

// handleOwnPrivateMsg files the server echo of our own direct message under
// the recipient's conversation. Never flags unread.
func (e *Engine) handleOwnPrivateMsg(ev Event) {
	if content.ValidateName(ev.Name) != nil {
		e.drop(ev, "invalid recipient handle")
		return
	}

	c := e.st.EnsureContact(ev.Name)
	c.History.Append(models.Message{From: e.st.Nick, Text: ev.Msg.Text, TS: ev.Msg.TS})
}
