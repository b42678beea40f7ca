package engine

import (
	"palaver/internal/content"
	"palaver/internal/models"
)

// Policy says how an outbound intent relates to local state: applied
// immediately, applied only once the server confirms, or emitted with no
// local effect at all.
type Policy string

const (
	PolicyOptimistic       Policy = "optimistic"
	PolicyConfirmThenApply Policy = "confirm-then-apply"
	PolicyFireAndForget    Policy = "fire-and-forget"
)

// JoinChannel asks to join a channel. Joining a channel we are already in
// is purely a local focus switch; otherwise the request goes to the server
// and the registry mutates only on its confirmation.
func (e *Engine) JoinChannel(name string) error {
	if err := content.ValidateName(name); err != nil {
		return err
	}

	return e.do(func() error {
		if _, ok := e.st.Channel(name); ok {
			e.focusChannel(name)
			return nil
		}

		e.log.Debug().Str("intent", "join").Str("policy", string(PolicyConfirmThenApply)).Str("channel", name).Msg("emit")
		return e.emitter.EmitJoin(name)
	})
}

// LeaveChannel asks to leave the focused channel. The registry entry stays
// until the server confirms, so local membership never runs ahead of the
// server's view.
func (e *Engine) LeaveChannel() error {
	return e.do(func() error {
		if e.st.Focus.Kind != models.FocusChannel {
			return ErrNotFocused
		}

		e.log.Debug().Str("intent", "leave").Str("policy", string(PolicyConfirmThenApply)).Str("channel", e.st.Focus.Name).Msg("emit")
		return e.emitter.EmitLeave(e.st.Focus.Name)
	})
}

// Send delivers text to the focused conversation. No local append happens;
// the server echoes the message back and the echo is what lands in history.
func (e *Engine) Send(text string) error {
	text = content.Clean(text)
	if text == "" {
		return nil
	}

	return e.do(func() error {
		switch e.st.Focus.Kind {
		case models.FocusChannel:
			e.log.Debug().Str("intent", "msg").Str("policy", string(PolicyFireAndForget)).Str("room", e.st.Focus.Name).Msg("emit")
			return e.emitter.EmitChannelMsg(e.st.Focus.Name, text)
		case models.FocusUser:
			e.log.Debug().Str("intent", "privateMsg").Str("policy", string(PolicyFireAndForget)).Str("to", e.st.Focus.Name).Msg("emit")
			return e.emitter.EmitPrivateMsg(e.st.Focus.Name, text)
		default:
			return ErrNotFocused
		}
	})
}

// FocusChannel selects a channel for display and clears its unread flag.
func (e *Engine) FocusChannel(name string) error {
	return e.do(func() error {
		e.focusChannel(name)
		return nil
	})
}

// FocusUser selects a user conversation for display and clears its unread
// flag.
func (e *Engine) FocusUser(handle string) error {
	return e.do(func() error {
		if c, ok := e.st.Contact(handle); ok {
			c.HasNew = false
		}
		e.st.Focus = models.Focus{Kind: models.FocusUser, Name: handle}
		if err := e.prefs.SetActiveUser(handle); err != nil {
			e.log.Warn().Err(err).Msg("failed to persist focus")
		}
		return nil
	})
}

// focusChannel must run on the engine goroutine.
func (e *Engine) focusChannel(name string) {
	if c, ok := e.st.Channel(name); ok {
		c.HasNew = false
	}
	e.st.Focus = models.Focus{Kind: models.FocusChannel, Name: name}
	if err := e.prefs.SetActiveChannel(name); err != nil {
		e.log.Warn().Err(err).Msg("failed to persist focus")
	}
}

// SignOut closes the connection and resets everything local immediately,
// then confirms with the backend. The reset is optimistic: a failed logout
// call does not roll it back.
func (e *Engine) SignOut() error {
	return e.do(func() error {
		if err := e.emitter.Close(); err != nil {
			e.log.Warn().Err(err).Msg("failed to close transport")
		}

		if err := e.prefs.ClearAll(); err != nil {
			e.log.Warn().Err(err).Msg("failed to clear persisted session")
		}

		e.st.Reset()
		e.st.Status = models.StatusDisconnectedByClient

		e.epoch++
		epoch := e.epoch

		e.log.Info().Str("intent", "signOut").Str("policy", string(PolicyOptimistic)).Msg("signed out locally")

		go func() {
			ok, err := e.dir.Logout(e.runCtx)
			select {
			case e.mailbox <- func() { e.applyLogout(epoch, ok, err) }:
			case <-e.done:
			}
		}()

		return nil
	})
}

func (e *Engine) applyLogout(epoch uint64, ok bool, err error) {
	if epoch != e.epoch {
		e.log.Debug().Msg("stale logout result discarded")
		return
	}

	switch {
	case err != nil:
		e.notifier.Alert("Unexpected error while trying to sign out: " + err.Error())
	case !ok:
		e.notifier.Alert("Unexpected error while trying to sign out")
	default:
		e.notifier.SignIn("You are now signed out.")
	}
}
