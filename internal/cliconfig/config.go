// Package cliconfig loads and validates configuration for the feedgate CLI.
// Precedence: flags > environment (FEEDGATE_*) > config file > defaults.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedgate-labs/feedgate/internal/domain"
)

// Config holds CLI configuration for feedgate.
type Config struct {
	BackendURL string
	DataDir    string

	PollInterval    time.Duration
	HTTPTimeout     time.Duration
	CallbackTimeout time.Duration

	OsNotifications   bool
	AudioCue          bool
	FallbackTransport bool

	Channels []string
	Theme    string
	Once     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		PollInterval:      2 * time.Minute,
		HTTPTimeout:       15 * time.Second,
		CallbackTimeout:   10 * time.Second,
		OsNotifications:   true,
		AudioCue:          true,
		FallbackTransport: true,
		BackendURL:        os.Getenv("FEEDGATE_BACKEND_URL"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend-url is required")
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("data-dir is required when no home directory is available")
		}
		c.DataDir = filepath.Join(home, ".feedgate")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.CallbackTimeout <= 0 {
		return fmt.Errorf("callback timeout must be positive")
	}

	switch c.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme must be light or dark, got %q", c.Theme)
	}

	for _, ch := range c.Channels {
		if !domain.Channel(ch).Valid() {
			return fmt.Errorf("unknown channel %q", ch)
		}
	}

	return nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.feedgate/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".feedgate", "config.toml")
	}
	return ""
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Logger returns the console logger for CLI output.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a slice value if non-empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration if the string is non-empty and the
// flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool from a *bool if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses "true"/"false"/"1"/"0" if non-empty and flag not
// changed. Unparsable values are ignored.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	}
}
