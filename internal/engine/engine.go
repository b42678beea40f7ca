// Package engine reconciles the unordered stream of server events into a
// consistent local view of the chat session. All mutations, inbound events
// and local intents alike, are serialized through a single mailbox consumed
// by one goroutine, so no reducer ever observes a partial update.
package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"palaver/internal/models"
	"palaver/internal/state"
)

var (
	// ErrNotFocused is returned by intents that need a focused conversation.
	ErrNotFocused = errors.New("no conversation focused")
	// ErrNotRunning is returned when the engine loop has already stopped.
	ErrNotRunning = errors.New("engine is not running")
)

// Emitter sends outbound requests to the chat server. Implemented by the
// websocket transport.
type Emitter interface {
	EmitJoin(name string) error
	EmitLeave(name string) error
	EmitChannelMsg(room, text string) error
	EmitPrivateMsg(to, text string) error
	// Close tears the connection down for good; the transport must not
	// redial afterwards.
	Close() error
}

// DirectoryClient is the HTTP collaborator backing the user directory.
type DirectoryClient interface {
	ListUsers(ctx context.Context) ([]string, error)
	Logout(ctx context.Context) (bool, error)
}

// PrefStore persists the handful of selections that survive a restart.
// Setting one focus dimension clears the other.
type PrefStore interface {
	Nick() (string, error)
	SetNick(nick string) error
	ActiveChannel() (string, error)
	ActiveUser() (string, error)
	SetActiveChannel(name string) error
	SetActiveUser(handle string) error
	ClearFocus() error
	ClearAll() error
}

// Notifier is the rendering collaborator for out-of-band signals: transient
// alerts and navigation back to the sign-in boundary.
type Notifier interface {
	Alert(msg string)
	SignIn(msg string)
}

// Config tunes the engine.
type Config struct {
	// Nick is the identity from the sign-in handshake, used when the side
	// store has no cached one.
	Nick string
	// HistoryLimit caps retained messages per conversation.
	HistoryLimit int
	// MailboxSize bounds how many pending events the engine buffers.
	MailboxSize int
}

// Engine owns the session state and is its only writer.
type Engine struct {
	cfg      Config
	log      zerolog.Logger
	st       *state.State
	emitter  Emitter
	dir      DirectoryClient
	prefs    PrefStore
	notifier Notifier

	mailbox chan func()
	done    chan struct{}
	runCtx  context.Context

	// epoch invalidates in-flight async results from a superseded session.
	epoch   uint64
	dropped atomic.Uint64
}

func New(cfg Config, emitter Emitter, dir DirectoryClient, prefs PrefStore, notifier Notifier, logger *zerolog.Logger) *Engine {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = 256
	}
	return &Engine{
		cfg:      cfg,
		log:      logger.With().Str("component", "engine").Logger(),
		st:       state.New(cfg.HistoryLimit),
		emitter:  emitter,
		dir:      dir,
		prefs:    prefs,
		notifier: notifier,
		mailbox:  make(chan func(), cfg.MailboxSize),
		done:     make(chan struct{}),
	}
}

// Run consumes the mailbox until ctx is cancelled. It must be called
// exactly once; every other method is safe from any goroutine.
func (e *Engine) Run(ctx context.Context) error {
	e.runCtx = ctx
	defer close(e.done)

	e.restoreFocus()

	for {
		select {
		case task := <-e.mailbox:
			task()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// restoreFocus re-selects the conversation remembered from the previous
// session. Only a user focus can be restored directly; a remembered channel
// has to be re-joined first, which the frontend drives.
func (e *Engine) restoreFocus() {
	handle, err := e.prefs.ActiveUser()
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to read persisted focus")
		return
	}
	if handle != "" {
		e.st.Focus = models.Focus{Kind: models.FocusUser, Name: handle}
		e.log.Debug().Str("user", handle).Msg("restored focus")
	}
}

// Handle queues one inbound event for reconciliation. Events are applied
// strictly in the order Handle is called.
func (e *Engine) Handle(ev Event) {
	select {
	case e.mailbox <- func() { e.apply(ev) }:
	case <-e.done:
		e.log.Debug().Stringer("kind", ev.Kind).Msg("event after shutdown, discarded")
	}
}

// do runs fn on the engine goroutine and waits for it to finish.
func (e *Engine) do(fn func() error) error {
	result := make(chan error, 1)
	select {
	case e.mailbox <- func() { result <- fn() }:
	case <-e.done:
		return ErrNotRunning
	}
	select {
	case err := <-result:
		return err
	case <-e.done:
		return ErrNotRunning
	}
}

// Snapshot returns a deep copy of the current state, produced on the engine
// goroutine so it can never observe a half-applied event.
func (e *Engine) Snapshot() (state.Snapshot, error) {
	var snap state.Snapshot
	err := e.do(func() error {
		snap = e.st.Snapshot()
		return nil
	})
	return snap, err
}

// Dropped reports how many malformed or unactionable events were discarded.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) drop(ev Event, reason string) {
	e.dropped.Add(1)
	e.log.Warn().Stringer("kind", ev.Kind).Str("name", ev.Name).Str("reason", reason).Msg("dropped event")
}
