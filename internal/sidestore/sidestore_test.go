package sidestore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore(t *testing.T) {
	store := openTestStore(t)

	t.Run("Nick", func(t *testing.T) {
		nick, err := store.Nick()
		if err != nil {
			t.Fatalf("Nick failed: %v", err)
		}
		if nick != "" {
			t.Errorf("expected empty nick, got %q", nick)
		}

		if err := store.SetNick("alice"); err != nil {
			t.Fatalf("SetNick failed: %v", err)
		}
		nick, err = store.Nick()
		if err != nil {
			t.Fatalf("Nick failed: %v", err)
		}
		if nick != "alice" {
			t.Errorf("expected 'alice', got %q", nick)
		}
	})

	t.Run("FocusExclusion", func(t *testing.T) {
		if err := store.SetActiveChannel("general"); err != nil {
			t.Fatalf("SetActiveChannel failed: %v", err)
		}
		if err := store.SetActiveUser("bob"); err != nil {
			t.Fatalf("SetActiveUser failed: %v", err)
		}

		channel, _ := store.ActiveChannel()
		user, _ := store.ActiveUser()
		if channel != "" {
			t.Errorf("activeChannel not cleared by SetActiveUser: %q", channel)
		}
		if user != "bob" {
			t.Errorf("expected activeUser 'bob', got %q", user)
		}

		if err := store.SetActiveChannel("random"); err != nil {
			t.Fatalf("SetActiveChannel failed: %v", err)
		}
		channel, _ = store.ActiveChannel()
		user, _ = store.ActiveUser()
		if user != "" {
			t.Errorf("activeUser not cleared by SetActiveChannel: %q", user)
		}
		if channel != "random" {
			t.Errorf("expected activeChannel 'random', got %q", channel)
		}
	})

	t.Run("ClearFocus", func(t *testing.T) {
		_ = store.SetActiveChannel("general")
		if err := store.ClearFocus(); err != nil {
			t.Fatalf("ClearFocus failed: %v", err)
		}
		channel, _ := store.ActiveChannel()
		user, _ := store.ActiveUser()
		if channel != "" || user != "" {
			t.Errorf("focus keys survived ClearFocus: %q %q", channel, user)
		}
	})

	t.Run("ClearAll", func(t *testing.T) {
		_ = store.SetNick("alice")
		_ = store.SetActiveChannel("general")

		if err := store.ClearAll(); err != nil {
			t.Fatalf("ClearAll failed: %v", err)
		}

		nick, _ := store.Nick()
		channel, _ := store.ActiveChannel()
		if nick != "" || channel != "" {
			t.Errorf("keys survived ClearAll: nick=%q channel=%q", nick, channel)
		}

		// Store remains usable after the wipe.
		if err := store.SetNick("bob"); err != nil {
			t.Fatalf("SetNick after ClearAll failed: %v", err)
		}
	})
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetNick("alice"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	nick, err := store.Nick()
	if err != nil {
		t.Fatal(err)
	}
	if nick != "alice" {
		t.Errorf("value lost across reopen: %q", nick)
	}
}
