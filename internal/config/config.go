package config

import "time"

// Config holds client configuration values.
type Config struct {
	// ServerURL is the base HTTP address of the chat server.
	ServerURL string `mapstructure:"server_url"`
	// WSPath is the websocket endpoint path on the server.
	WSPath string `mapstructure:"ws_path"`
	// DBFile is the side-store database path.
	DBFile string `mapstructure:"db_file"`
	// Nick is the identity from sign-in, used if the side store has none.
	Nick string `mapstructure:"nick"`

	LogLevel     string        `mapstructure:"log_level"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReconnectMin time.Duration `mapstructure:"reconnect_min"`
	ReconnectMax time.Duration `mapstructure:"reconnect_max"`
	// HistoryLimit caps retained messages per conversation.
	HistoryLimit int `mapstructure:"history_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		ServerURL:    "http://localhost:8080",
		WSPath:       "/socket",
		DBFile:       "palaver.db",
		LogLevel:     "info",
		DialTimeout:  10 * time.Second,
		ReconnectMin: time.Second,
		ReconnectMax: 30 * time.Second,
		HistoryLimit: 1000,
	}
}
