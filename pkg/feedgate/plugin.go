package feedgate

import (
	"context"

	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Plugin extends a Feedgate instance with additional behavior.
// Plugins are initialized in registration order when Start is called and
// shut down in reverse order during Stop. An initialization error aborts
// the start.
type Plugin interface {
	// Name returns the plugin identifier, used in logs.
	Name() string

	// Initialize sets up the plugin. The context is canceled when the
	// client stops; long-running work should watch it.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases the plugin's resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to every plugin on initialization. It exposes
// the instance's configuration plus hooks into the running client.
type PluginConfig struct {
	BackendURL string
	DataDir    string

	// ConfigPath is the TOML config file path, empty when the instance
	// was configured programmatically.
	ConfigPath string

	Logger log.Logger

	// Refresh schedules an immediate out-of-cycle synchronization pass.
	Refresh func()

	// SetTheme updates the persisted theme preference.
	SetTheme func(theme string) error
}
