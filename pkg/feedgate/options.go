package feedgate

import (
	"net/http"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Option configures optional behavior of a Feedgate instance.
type Option func(*options)

// options holds the optional configuration for a Feedgate instance.
type options struct {
	httpClient   ports.HTTPClient
	logger       log.Logger
	store        ports.KeyValueStore
	renderers    map[domain.Channel]ports.Renderer
	toaster      ports.Toaster
	audio        ports.AudioCue
	osn          ports.OsNotifier
	eventHandler EventHandler
	plugins      []Plugin
}

// defaultOptions returns options with sensible defaults.
func defaultOptions(client *http.Client) options {
	return options{
		httpClient: client,
		logger:     log.NewNoopLogger(),
	}
}

// WithHTTPClient sets a custom HTTP client for backend communication.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore sets a custom session store. If not provided, a JSON file
// under Config.DataDir is used.
func WithStore(store KeyValueStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRenderer sets the renderer for one channel. Channels without a
// renderer use the built-in terminal pane.
func WithRenderer(channel Channel, r Renderer) Option {
	return func(o *options) {
		if o.renderers == nil {
			o.renderers = make(map[domain.Channel]ports.Renderer)
		}
		o.renderers[channel] = r
	}
}

// WithToaster sets a custom toast surface.
func WithToaster(t Toaster) Option {
	return func(o *options) {
		o.toaster = t
	}
}

// WithAudioCue sets a custom audio cue surface.
func WithAudioCue(a AudioCue) Option {
	return func(o *options) {
		o.audio = a
	}
}

// WithOsNotifier sets a custom OS notification surface.
func WithOsNotifier(n OsNotifier) Option {
	return func(o *options) {
		o.osn = n
	}
}

// WithEventHandler sets a handler for client events.
// Events are called synchronously; if not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the client starts.
// Plugins are initialized in registration order and shut down in reverse
// order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
