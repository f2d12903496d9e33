// Package configwatcher provides config file monitoring for feedgate.
// When enabled, it watches the TOML config file and live-applies the
// settings that can change without a restart: the theme preference, and
// anything that warrants an immediate refresh pass.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/feedgate-labs/feedgate/internal/cliconfig"
	"github.com/feedgate-labs/feedgate/pkg/feedgate"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Plugin implements config watching functionality. It monitors the
// config file named in the instance's PluginConfig and applies changes
// through the hooks the instance hands it.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration

	configPath string
	logger     log.Logger
	refresh    func()
	setTheme   func(string) error

	lastTheme string

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// reloading. Editors often write a file several times in a burst.
	// Default: 200 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 200 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize sets up the plugin and starts the watcher loop.
func (p *Plugin) Initialize(ctx context.Context, cfg feedgate.PluginConfig) error {
	p.mu.Lock()
	p.configPath = cfg.ConfigPath
	p.logger = cfg.Logger
	p.refresh = cfg.Refresh
	p.setTheme = cfg.SetTheme
	p.mu.Unlock()

	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.configPath == "" {
		p.logger.Warn("config watcher disabled: no config file path")
		return nil
	}

	// Arm the watch before returning: a change landing between Initialize
	// and the loop's first select must still be seen.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.configPath)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher initialized",
		log.String("path", p.configPath))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop drains events from the already-armed watcher. The watch covers
// the config file's directory rather than the file itself, which survives
// the rename dance most editors and atomic writers perform.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(p.configPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, p.reload)
}

// reload re-reads the config file and applies what can change live.
func (p *Plugin) reload() {
	fc, err := cliconfig.LoadFileConfig(p.configPath)
	if err != nil {
		p.logger.Warn("config watcher: reload failed", log.Err(err))
		return
	}

	p.mu.Lock()
	themeChanged := fc.Theme != "" && fc.Theme != p.lastTheme
	if themeChanged {
		p.lastTheme = fc.Theme
	}
	setTheme := p.setTheme
	refresh := p.refresh
	p.mu.Unlock()

	if themeChanged && setTheme != nil {
		if err := setTheme(fc.Theme); err != nil {
			p.logger.Warn("config watcher: theme rejected", log.Err(err))
		} else {
			p.logger.Info("config watcher: theme updated",
				log.String("theme", fc.Theme))
		}
	}

	if refresh != nil {
		p.logger.Info("config watcher: config changed, refreshing")
		refresh()
	}
}

// Ensure Plugin implements feedgate.Plugin.
var _ feedgate.Plugin = (*Plugin)(nil)
