package feedgate

import (
	"fmt"
	"time"

	"github.com/feedgate-labs/feedgate/internal/domain"
)

// Config holds the configuration for a Feedgate instance.
// Use DefaultConfig() to get a Config with sensible defaults; at minimum
// BackendURL must be set before calling New.
type Config struct {
	// BackendURL is the backend base URL. Required.
	BackendURL string

	// DataDir is where the session file lives. Defaults to ~/.feedgate.
	// Ignored when a store is supplied via WithStore.
	DataDir string

	// PollInterval is the synchronization loop period. Default 2 minutes.
	PollInterval time.Duration

	// HTTPTimeout bounds each direct backend request. Default 15 seconds.
	HTTPTimeout time.Duration

	// CallbackTimeout bounds the fallback transport's wait for its
	// callback to be invoked. Default 10 seconds.
	CallbackTimeout time.Duration

	// EnableFallback turns on the callback-convention transport when the
	// direct path fails.
	EnableFallback bool

	// EnableAudioCue and EnableOsNotifications turn on the respective
	// alert surfaces. Both still require their capability to be acquired
	// via HandleGesture before anything is heard or shown.
	EnableAudioCue        bool
	EnableOsNotifications bool

	// Channels to synchronize and watch. Empty means all channels.
	Channels []string

	// Theme selects the render palette ("light" or "dark"). Empty means
	// the persisted preference, falling back to light.
	Theme string

	// ToastDuration is the toast auto-dismiss time. Zero means 4 seconds.
	ToastDuration time.Duration

	// ConfigPath is the TOML config file backing this configuration, if
	// any. Plugins such as the config watcher use it; the core ignores it.
	ConfigPath string

	// Once makes the loop perform a single pass and finish.
	Once bool
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set BackendURL before calling New.
func DefaultConfig() Config {
	return Config{
		PollInterval:          2 * time.Minute,
		HTTPTimeout:           15 * time.Second,
		CallbackTimeout:       10 * time.Second,
		EnableFallback:        true,
		EnableAudioCue:        true,
		EnableOsNotifications: true,
	}
}

// SetDefaults fills zero-valued durations with their defaults.
func (c *Config) SetDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Minute
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.CallbackTimeout <= 0 {
		c.CallbackTimeout = 10 * time.Second
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("%w: BackendURL is required", domain.ErrInvalidConfig)
	}
	switch c.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidConfig, c.Theme)
	}
	for _, ch := range c.Channels {
		if !domain.Channel(ch).Valid() {
			return fmt.Errorf("%w: unknown channel %q", domain.ErrInvalidConfig, ch)
		}
	}
	return nil
}

// channels returns the configured channels as domain values.
func (c *Config) channels() []domain.Channel {
	if len(c.Channels) == 0 {
		return domain.AllChannels
	}
	out := make([]domain.Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		out = append(out, domain.Channel(ch))
	}
	return out
}
