// Package alerts delivers transient, user-visible notifications and the
// navigation signal back to the sign-in boundary.
package alerts

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/c-pro/geche"
)

// Notifier mirrors the engine's notification boundary.
type Notifier interface {
	Alert(msg string)
	SignIn(msg string)
}

// Console prints notifications to a writer and exposes sign-in navigation
// as a channel the frontend can select on.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	signIns chan string
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		signIns: make(chan string, 1),
	}
}

func (c *Console) Alert(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "! %s\n", msg)
}

func (c *Console) SignIn(msg string) {
	c.mu.Lock()
	_, _ = fmt.Fprintf(c.out, "%s\n", msg)
	c.mu.Unlock()

	select {
	case c.signIns <- msg:
	default:
		// a navigation is already pending
	}
}

// SignIns delivers at most one pending sign-in navigation request.
func (c *Console) SignIns() <-chan string {
	return c.signIns
}

// Throttled suppresses repeats of the same alert inside a TTL window, so a
// flapping connection does not spam the user with identical messages.
// Sign-in navigation always passes through.
type Throttled struct {
	next Notifier
	seen geche.Geche[string, struct{}]
}

func NewThrottled(ctx context.Context, next Notifier, ttl time.Duration) *Throttled {
	return &Throttled{
		next: next,
		seen: geche.NewMapTTLCache[string, struct{}](ctx, ttl, time.Minute),
	}
}

func (t *Throttled) Alert(msg string) {
	if _, err := t.seen.Get(msg); err == nil {
		return
	}
	t.seen.Set(msg, struct{}{})
	t.next.Alert(msg)
}

func (t *Throttled) SignIn(msg string) {
	t.next.SignIn(msg)
}
