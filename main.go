package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"palaver/internal/alerts"
	"palaver/internal/apiclient"
	"palaver/internal/config"
	"palaver/internal/engine"
	palaverlog "palaver/internal/log"
	"palaver/internal/models"
	"palaver/internal/sidestore"
	"palaver/internal/transport"
)

func run(ctx context.Context, configPath, nick, token string) error {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if nick != "" {
		cfg.Nick = nick
	}

	logger := palaverlog.New(cfg.LogLevel)

	store, err := sidestore.Open(cfg.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	api, err := apiclient.New(cfg.ServerURL, token)
	if err != nil {
		return err
	}

	wsURL, err := websocketURL(cfg.ServerURL, cfg.WSPath)
	if err != nil {
		return err
	}

	ws := transport.New(transport.Config{
		URL:         wsURL,
		Token:       token,
		DialTimeout: cfg.DialTimeout,
		MinBackoff:  cfg.ReconnectMin,
		MaxBackoff:  cfg.ReconnectMax,
	}, logger)

	console := alerts.NewConsole(os.Stdout)
	notifier := alerts.NewThrottled(ctx, console, 30*time.Second)

	eng := engine.New(engine.Config{
		Nick:         cfg.Nick,
		HistoryLimit: cfg.HistoryLimit,
	}, ws, api, store, notifier, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := eng.Run(gCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := ws.Run(gCtx, eng)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Stop everything once the engine asks for the sign-in boundary.
	g.Go(func() error {
		select {
		case <-console.SignIns():
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		consoleLoop(gCtx, eng, store)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// websocketURL derives the websocket address from the HTTP base URL.
func websocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = path
	return u.String(), nil
}

// consoleLoop is the stand-in rendering layer: a line-oriented command
// surface over the engine. It holds no chat state of its own.
func consoleLoop(ctx context.Context, eng *engine.Engine, store *sidestore.Store) {
	rejoinRemembered(ctx, eng, store)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Println("commands: /join <channel>, /leave, /focus #channel|@user, /who, /signout")

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := handleLine(eng, strings.TrimSpace(line)); err != nil {
				fmt.Printf("! %v\n", err)
			}
		}
	}
}

// rejoinRemembered re-joins the channel focused in the previous session.
// Channel focus cannot be restored directly because a channel only exists
// locally once the server confirms the join.
func rejoinRemembered(ctx context.Context, eng *engine.Engine, store *sidestore.Store) {
	name, err := store.ActiveChannel()
	if err != nil || name == "" {
		return
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(30 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			snap, err := eng.Snapshot()
			if err != nil {
				return
			}
			if snap.Status == models.StatusConnected {
				_ = eng.JoinChannel(name)
				return
			}
		}
	}
}

func handleLine(eng *engine.Engine, line string) error {
	if line == "" {
		return nil
	}

	if !strings.HasPrefix(line, "/") {
		return eng.Send(line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/join":
		return eng.JoinChannel(arg)
	case "/leave":
		return eng.LeaveChannel()
	case "/focus":
		switch {
		case strings.HasPrefix(arg, "#"):
			return eng.FocusChannel(strings.TrimPrefix(arg, "#"))
		case strings.HasPrefix(arg, "@"):
			return eng.FocusUser(strings.TrimPrefix(arg, "@"))
		default:
			return fmt.Errorf("usage: /focus #channel or /focus @user")
		}
	case "/who":
		return printWho(eng)
	case "/signout":
		return eng.SignOut()
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
}

func printWho(eng *engine.Engine) error {
	snap, err := eng.Snapshot()
	if err != nil {
		return err
	}

	fmt.Printf("you are %s (%s)\n", snap.Nick, snap.Status)
	for _, ch := range snap.Channels {
		marker := " "
		if snap.Focus.IsChannel(ch.Name) {
			marker = "*"
		} else if ch.HasNew {
			marker = "+"
		}
		fmt.Printf("%s #%s (%d messages)\n", marker, ch.Name, len(ch.Messages))
	}
	for handle, c := range snap.Contacts {
		presence := "offline"
		if c.Online {
			presence = "online"
		}
		marker := " "
		if snap.Focus.IsUser(handle) {
			marker = "*"
		} else if c.HasNew {
			marker = "+"
		}
		fmt.Printf("%s @%s (%s, %d messages)\n", marker, handle, presence, len(c.Messages))
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	nick := flag.String("nick", "", "Identity from sign-in (overrides config)")
	token := flag.String("token", "", "Session credential from sign-in")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *nick, *token); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "palaver: %v\n", err)
		os.Exit(1)
	}
}
