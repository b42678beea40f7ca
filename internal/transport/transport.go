// Package transport maintains the websocket connection to the chat server.
// It decodes inbound frames into reconciler events, synthesizes connect and
// disconnect lifecycle events, and redials with capped exponential backoff
// until the client closes for good.
package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"palaver/internal/engine"
	"palaver/internal/proto"
)

// ErrNotConnected is returned by emissions while the socket is down.
var ErrNotConnected = errors.New("not connected")

// EventSink receives decoded events in arrival order.
type EventSink interface {
	Handle(ev engine.Event)
}

// Config tunes the transport.
type Config struct {
	// URL is the full websocket address, e.g. ws://host:port/socket.
	URL string
	// Token is the session credential attached to the dial request.
	Token string

	DialTimeout time.Duration
	// MinBackoff and MaxBackoff bound the redial delay.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

type Client struct {
	cfg Config
	log zerolog.Logger
	now func() time.Time

	mu   sync.Mutex
	conn *websocket.Conn

	closed   bool
	closedCh chan struct{}
}

func New(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Client{
		cfg:      cfg,
		log:      logger.With().Str("component", "transport").Logger(),
		now:      time.Now,
		closedCh: make(chan struct{}),
	}
}

// Run dials and reads until ctx is cancelled or Close is called. Every
// successful dial delivers a connect event; every drop a disconnect event.
func (c *Client) Run(ctx context.Context, sink EventSink) error {
	backoff := c.cfg.MinBackoff

	for {
		if c.isClosed() {
			return nil
		}

		connID := uuid.NewString()
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Str("conn", connID).Dur("retry_in", backoff).Msg("dial failed")
			if !c.sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, c.cfg.MaxBackoff)
			continue
		}

		c.setConn(conn)
		backoff = c.cfg.MinBackoff
		c.log.Info().Str("conn", connID).Msg("connected")
		sink.Handle(engine.Event{Kind: engine.EventConnect, ConnID: connID})

		readErr := c.readLoop(ctx, conn, sink)
		c.setConn(nil)
		_ = conn.Close()

		sink.Handle(engine.Event{Kind: engine.EventDisconnect})

		if c.isClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.log.Warn().Err(readErr).Str("conn", connID).Dur("retry_in", backoff).Msg("connection lost")
		if !c.sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = min(backoff*2, c.cfg.MaxBackoff)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.DialTimeout}

	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("token", c.cfg.Token)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(dialCtx, c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, sink EventSink) error {
	for {
		var env proto.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sink.Handle(c.decode(env))
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closedCh:
		return true
	default:
		return false
	}
}

// sleep waits for the backoff period, returning false when interrupted by
// shutdown.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.closedCh:
		return true // loop head notices closed and exits cleanly
	case <-ctx.Done():
		return false
	}
}

// Close shuts the connection down for good. No redial happens afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.closedCh)

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
