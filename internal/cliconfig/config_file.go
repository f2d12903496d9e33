package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BackendURL        string   `toml:"backend_url"`
	DataDir           string   `toml:"data_dir"`
	PollInterval      string   `toml:"poll_interval"`
	HTTPTimeout       string   `toml:"http_timeout"`
	CallbackTimeout   string   `toml:"callback_timeout"`
	OsNotifications   *bool    `toml:"os_notifications"`
	AudioCue          *bool    `toml:"audio_cue"`
	FallbackTransport *bool    `toml:"fallback_transport"`
	Channels          []string `toml:"channels"`
	Theme             string   `toml:"theme"`
	Once              *bool    `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("backend-url", fc.BackendURL, &cfg.BackendURL)
	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("theme", fc.Theme, &cfg.Theme)
	s.setStrings("channels", fc.Channels, &cfg.Channels)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("callback-timeout", fc.CallbackTimeout, &cfg.CallbackTimeout); err != nil {
		return err
	}

	s.setBool("os-notifications", fc.OsNotifications, &cfg.OsNotifications)
	s.setBool("audio-cue", fc.AudioCue, &cfg.AudioCue)
	s.setBool("fallback", fc.FallbackTransport, &cfg.FallbackTransport)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}
