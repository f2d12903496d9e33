package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (FEEDGATE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("backend-url", os.Getenv("FEEDGATE_BACKEND_URL"), &cfg.BackendURL)
	s.setString("data-dir", os.Getenv("FEEDGATE_DATA_DIR"), &cfg.DataDir)
	s.setString("theme", os.Getenv("FEEDGATE_THEME"), &cfg.Theme)

	if v := os.Getenv("FEEDGATE_CHANNELS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		s.setStrings("channels", parts, &cfg.Channels)
	}

	if err := s.setDuration("poll", os.Getenv("FEEDGATE_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("FEEDGATE_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("callback-timeout", os.Getenv("FEEDGATE_CALLBACK_TIMEOUT"), &cfg.CallbackTimeout); err != nil {
		return err
	}

	s.setBoolFromString("os-notifications", os.Getenv("FEEDGATE_OS_NOTIFICATIONS"), &cfg.OsNotifications)
	s.setBoolFromString("audio-cue", os.Getenv("FEEDGATE_AUDIO_CUE"), &cfg.AudioCue)
	s.setBoolFromString("fallback", os.Getenv("FEEDGATE_FALLBACK"), &cfg.FallbackTransport)
	s.setBoolFromString("once", os.Getenv("FEEDGATE_ONCE"), &cfg.Once)

	return nil
}
