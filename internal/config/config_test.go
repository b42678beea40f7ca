package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palaver.yaml")

	cfg, gotPath, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if gotPath != path {
		t.Errorf("expected path %q, got %q", path, gotPath)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("unexpected default server_url %q", cfg.ServerURL)
	}
	if cfg.HistoryLimit != 1000 {
		t.Errorf("unexpected default history_limit %d", cfg.HistoryLimit)
	}

	// A default config file should have been written.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestLoad_WritesEditableDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palaver.yaml")

	if _, _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"dial_timeout: 10s", "reconnect_min: 1s", "reconnect_max: 30s"} {
		if !strings.Contains(content, want) {
			t.Errorf("generated file should contain %q, got:\n%s", want, content)
		}
	}

	// The written file must load back to the same values.
	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("reloading generated file failed: %v", err)
	}
	if cfg.DialTimeout != 10*time.Second || cfg.ReconnectMax != 30*time.Second {
		t.Errorf("generated durations did not round-trip: %+v", cfg)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palaver.yaml")
	content := "server_url: http://chat.example.com\nnick: alice\nreconnect_min: 2s\nreconnect_max: 1m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://chat.example.com" {
		t.Errorf("file value not applied: %q", cfg.ServerURL)
	}
	if cfg.Nick != "alice" {
		t.Errorf("file value not applied: %q", cfg.Nick)
	}
	if cfg.ReconnectMin != 2*time.Second {
		t.Errorf("duration not parsed: %v", cfg.ReconnectMin)
	}
	// Unset keys keep defaults.
	if cfg.WSPath != "/socket" {
		t.Errorf("default lost: %q", cfg.WSPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palaver.yaml")
	t.Setenv("PALAVER_NICK", "bob")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Nick != "bob" {
		t.Errorf("env value not applied: %q", cfg.Nick)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := Default()
	bad.ServerURL = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty server_url")
	}

	bad = Default()
	bad.HistoryLimit = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero history_limit")
	}

	bad = Default()
	bad.ReconnectMax = bad.ReconnectMin / 2
	if err := bad.Validate(); err == nil {
		t.Error("expected error for inverted backoff bounds")
	}
}
