package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v, want 2m", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.CallbackTimeout != 10*time.Second {
		t.Errorf("CallbackTimeout = %v, want 10s", cfg.CallbackTimeout)
	}
	if !cfg.OsNotifications || !cfg.AudioCue || !cfg.FallbackTransport {
		t.Error("notification, audio and fallback transport must default on")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing backend url",
			mutate:  func(c *Config) { c.BackendURL = "" },
			wantErr: "backend-url",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.PollInterval = 0 },
			wantErr: "poll interval",
		},
		{
			name:    "negative http timeout",
			mutate:  func(c *Config) { c.HTTPTimeout = -time.Second },
			wantErr: "http timeout",
		},
		{
			name:    "zero callback timeout",
			mutate:  func(c *Config) { c.CallbackTimeout = 0 },
			wantErr: "callback timeout",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized" },
			wantErr: "theme",
		},
		{
			name:    "unknown channel",
			mutate:  func(c *Config) { c.Channels = []string{"news_orders", "rumors"} },
			wantErr: "channel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BackendURL = "https://example.com/api"
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTrimsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackendURL = "https://example.com/api/"
	cfg.DataDir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.BackendURL != "https://example.com/api" {
		t.Errorf("BackendURL = %q, want trailing slash removed", cfg.BackendURL)
	}
}

func TestValidateDefaultsDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackendURL = "https://example.com/api"
	cfg.DataDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	if cfg.DataDir != filepath.Join(home, ".feedgate") {
		t.Errorf("DataDir = %q, want ~/.feedgate", cfg.DataDir)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if FileExists(path) {
		t.Error("FileExists() true for missing file")
	}
	if FileExists(dir) {
		t.Error("FileExists() true for directory")
	}
	if err := os.WriteFile(path, []byte("theme = \"dark\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() false for regular file")
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
backend_url = "https://example.com/api"
poll_interval = "5m"
os_notifications = false
channels = ["signals"]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error: %v", err)
	}
	if fc.BackendURL != "https://example.com/api" {
		t.Errorf("BackendURL = %q", fc.BackendURL)
	}
	if fc.PollInterval != "5m" {
		t.Errorf("PollInterval = %q", fc.PollInterval)
	}
	if fc.OsNotifications == nil || *fc.OsNotifications {
		t.Error("OsNotifications not parsed as false")
	}
	if !reflect.DeepEqual(fc.Channels, []string{"signals"}) {
		t.Errorf("Channels = %v", fc.Channels)
	}
	if fc.Theme != "dark" {
		t.Errorf("Theme = %q", fc.Theme)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}
}

func TestLoadFileConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("theme = [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() expected parse error")
	}
}
