package configwatcher

import "github.com/feedgate-labs/feedgate/pkg/feedgate"

// WithConfigWatcher returns a feedgate Option that enables config file
// watching. The watched path is the instance's Config.ConfigPath.
//
// Usage:
//
//	client, err := feedgate.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 200 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) feedgate.Option {
	plugin := New(cfg)
	return feedgate.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a feedgate Option that enables config
// watching with default settings (debounce 200ms).
//
// Usage:
//
//	client, err := feedgate.New(cfg, configwatcher.WithDefaultConfigWatcher())
func WithDefaultConfigWatcher() feedgate.Option {
	return WithConfigWatcher(DefaultConfig())
}
