package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfigName = "palaver.yaml"

// Load builds configuration from defaults, an optional config file and
// PALAVER_* env vars, in that precedence order. A missing config file is
// created with the defaults so there is something to edit.
func Load(explicitPath string) (Config, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("ws_path", cfg.WSPath)
	v.SetDefault("db_file", cfg.DBFile)
	v.SetDefault("nick", cfg.Nick)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("dial_timeout", cfg.DialTimeout)
	v.SetDefault("reconnect_min", cfg.ReconnectMin)
	v.SetDefault("reconnect_max", cfg.ReconnectMax)
	v.SetDefault("history_limit", cfg.HistoryLimit)

	v.SetEnvPrefix("PALAVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr == nil {
				// best effort; defaults are already in place
				_ = v.ReadInConfig()
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, configPath, err
	}

	return cfg, configPath, nil
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url is required")
	}
	if c.HistoryLimit <= 0 {
		return errors.New("history_limit must be greater than 0")
	}
	if c.ReconnectMin <= 0 || c.ReconnectMax < c.ReconnectMin {
		return errors.New("reconnect backoff bounds are invalid")
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

// fileConfig is the on-disk shape of Config. Durations are written in
// their "10s" form so the generated file stays hand-editable; viper
// parses both forms back.
type fileConfig struct {
	ServerURL    string `yaml:"server_url"`
	WSPath       string `yaml:"ws_path"`
	DBFile       string `yaml:"db_file"`
	Nick         string `yaml:"nick"`
	LogLevel     string `yaml:"log_level"`
	DialTimeout  string `yaml:"dial_timeout"`
	ReconnectMin string `yaml:"reconnect_min"`
	ReconnectMax string `yaml:"reconnect_max"`
	HistoryLimit int    `yaml:"history_limit"`
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(fileConfig{
		ServerURL:    cfg.ServerURL,
		WSPath:       cfg.WSPath,
		DBFile:       cfg.DBFile,
		Nick:         cfg.Nick,
		LogLevel:     cfg.LogLevel,
		DialTimeout:  cfg.DialTimeout.String(),
		ReconnectMin: cfg.ReconnectMin.String(),
		ReconnectMax: cfg.ReconnectMax.String(),
		HistoryLimit: cfg.HistoryLimit,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
