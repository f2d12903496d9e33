package feedgate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/feedgate-labs/feedgate/internal/adapters/desktop"
	"github.com/feedgate-labs/feedgate/internal/adapters/fs"
	"github.com/feedgate-labs/feedgate/internal/adapters/term"
	"github.com/feedgate-labs/feedgate/internal/api"
	"github.com/feedgate-labs/feedgate/internal/app"
	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/identity"
	"github.com/feedgate-labs/feedgate/internal/notify"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/internal/transport"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Feedgate is a gated-feed client that can be embedded in other
// applications. Use New() to create an instance, then Start() to begin
// synchronizing.
type Feedgate struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	controller *app.Controller
	redeemer   *app.Redeemer
	perms      *notify.Permissions
	session    *store.Session
	transport  *transport.Client
	logger     log.Logger

	plugins []Plugin

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new Feedgate instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin
// synchronizing. Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Feedgate, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	o := defaultOptions(httpClient)
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	kv := o.store
	if kv == nil {
		dir := cfg.DataDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("%w: DataDir is required when no home directory is available", domain.ErrInvalidConfig)
			}
			dir = filepath.Join(home, ".feedgate")
			cfg.DataDir = dir
		}
		kv = fs.NewKVFile(dir)
	}
	session := store.NewSession(kv, logger)

	theme := cfg.Theme
	if theme == "" {
		theme = session.Theme()
	} else {
		session.SetTheme(theme)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	tr := transport.NewClient(transport.Config{
		BackendURL:      cfg.BackendURL,
		EnableFallback:  cfg.EnableFallback,
		CallbackTimeout: cfg.CallbackTimeout,
	}, o.httpClient, logger)
	backend := api.NewClient(tr)

	toaster := o.toaster
	if toaster == nil {
		toaster = term.NewToast(nil)
	}
	audio := o.audio
	if audio == nil && cfg.EnableAudioCue {
		audio = desktop.NewAudio()
	}
	osn := o.osn
	if osn == nil && cfg.EnableOsNotifications {
		osn = desktop.NewNotifier()
	}

	perms := notify.NewPermissions(session, audio, osn,
		cfg.EnableAudioCue, cfg.EnableOsNotifications, logger)

	pipeline := notify.NewPipeline(notify.Config{
		Channels:              cfg.channels(),
		EnableAudioCue:        cfg.EnableAudioCue,
		EnableOsNotifications: cfg.EnableOsNotifications,
		ToastDuration:         cfg.ToastDuration,
	}, backend, session, toaster, audio, osn, perms, logger)
	pipeline.SetNewContentFunc(emitter.OnNewContent)

	renderers := make(map[domain.Channel]ports.Renderer, len(cfg.channels()))
	for _, ch := range cfg.channels() {
		if r, ok := o.renderers[ch]; ok {
			renderers[ch] = r
			continue
		}
		renderers[ch] = term.NewRenderer(ch, theme, nil)
	}

	controller := app.NewController(app.ControllerConfig{
		PollInterval: cfg.PollInterval,
		Channels:     cfg.channels(),
		Once:         cfg.Once,
	}, backend, session, renderers, pipeline, emitter, logger)

	return &Feedgate{
		config:     cfg,
		opts:       o,
		lifecycle:  app.NewLifecycle(logger, emitter),
		controller: controller,
		redeemer:   app.NewRedeemer(backend, session, logger),
		perms:      perms,
		session:    session,
		transport:  tr,
		logger:     logger,
		plugins:    o.plugins,
	}, nil
}

// Start begins synchronization in the background.
// Returns immediately after starting the loop goroutine.
// Returns an error if already running or if a plugin fails to initialize.
// The provided context bounds the lifetime of the loop.
func (f *Feedgate) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	if err := f.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.ctx = runCtx
	f.cancel = cancel
	f.done = make(chan struct{})
	f.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		BackendURL: f.config.BackendURL,
		DataDir:    f.config.DataDir,
		ConfigPath: f.config.ConfigPath,
		Logger:     f.logger,
		Refresh:    f.Refresh,
		SetTheme:   f.SetTheme,
	}
	for _, p := range f.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			f.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			_ = f.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		f.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	done := f.done
	f.lifecycle.AddWorker()
	go func() {
		defer f.lifecycle.WorkerDone()
		defer close(done)

		if err := f.lifecycle.TransitionTo(app.StateRunning, "loop starting"); err != nil {
			f.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		err := f.controller.Run(runCtx)

		switch {
		case err != nil && err != context.Canceled:
			f.logger.Error("synchronization loop error", log.Err(err))
			_ = f.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		case err == nil && f.config.Once:
			// Single-pass mode finishes on its own.
			_ = f.lifecycle.TransitionTo(app.StateStopping, "single pass complete")
			_ = f.lifecycle.TransitionTo(app.StateStopped, "single pass complete")
		}
	}()

	return nil
}

// Stop gracefully shuts down the client. Waits up to 30 seconds before
// forcing shutdown. Returns nil on graceful shutdown, ErrShutdownTimeout
// if forced.
func (f *Feedgate) Stop() error {
	f.mu.Lock()

	if !f.lifecycle.CanStop() {
		f.mu.Unlock()
		return domain.ErrNotRunning
	}

	if err := f.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		f.mu.Unlock()
		return err
	}

	if f.cancel != nil {
		f.cancel()
	}

	f.mu.Unlock()

	err := f.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	shutdownCtx := context.Background()
	for i := len(f.plugins) - 1; i >= 0; i-- {
		p := f.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			f.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(shutdownErr))
		} else {
			f.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}

	if err != nil {
		_ = f.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = f.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (f *Feedgate) Status() State {
	return convertState(f.lifecycle.State())
}

// Done returns a channel closed when the synchronization loop exits.
// Useful in single-pass mode to wait for completion. Returns nil before
// the first Start.
func (f *Feedgate) Done() <-chan struct{} {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.done
}

// Redeem exchanges an access code for a token and persists it, unlocking
// the feed. See app.Redeemer for the failure modes.
func (f *Feedgate) Redeem(ctx context.Context, code string) error {
	err := f.redeemer.Redeem(ctx, code)
	if err == nil {
		f.Refresh()
	}
	return err
}

// Unlocked reports whether a token is present.
func (f *Feedgate) Unlocked() bool {
	return f.session.Token() != ""
}

// ClearToken removes the persisted token, returning the client to the
// locked state. The loop keeps running and idles until the next Redeem.
func (f *Feedgate) ClearToken() {
	f.session.ClearToken()
	f.logger.Info("access token cleared")
}

// Refresh schedules an immediate out-of-cycle synchronization pass.
// Safe to call from any goroutine; a no-op before Start.
func (f *Feedgate) Refresh() {
	f.controller.Wake()
}

// HandleGesture runs the one-time capability acquisition (audio unlock,
// OS notification permission). Call it on the first user interaction;
// subsequent calls are no-ops.
func (f *Feedgate) HandleGesture(ctx context.Context) {
	f.perms.HandleGesture(ctx)
}

// DeviceID returns the persistent device identifier, creating it on
// first use.
func (f *Feedgate) DeviceID() string {
	return identity.GetOrCreate(f.session, f.logger)
}

// Theme returns the active theme preference.
func (f *Feedgate) Theme() string {
	return f.session.Theme()
}

// SetTheme persists the theme preference. Renderers pick it up on the
// next construction; custom renderers may observe it live.
func (f *Feedgate) SetTheme(theme string) error {
	switch theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidConfig, theme)
	}
	f.session.SetTheme(theme)
	return nil
}

// LastRefresh returns the time of the last successful refresh pass (zero
// if none yet) and whether the most recent pass failed.
func (f *Feedgate) LastRefresh() (last time.Time, failed bool) {
	return f.controller.Status()
}
