package app

import (
	"context"
	"sync"
	"time"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// DefaultPollInterval matches the original deployment's auto-refresh cadence.
const DefaultPollInterval = 2 * time.Minute

// FeedFetcher retrieves one channel's records.
type FeedFetcher interface {
	Feed(ctx context.Context, channel domain.Channel, token string) ([]domain.ContentRecord, error)
}

// VersionChecker runs the notification pipeline's version check.
type VersionChecker interface {
	CheckAndNotify(ctx context.Context)
}

// RefreshEmitter is called after every refresh pass.
type RefreshEmitter interface {
	OnRefresh(ok bool, duration time.Duration)
}

// ControllerConfig contains configuration for the synchronization loop.
type ControllerConfig struct {
	// PollInterval is the repeat period. Zero means DefaultPollInterval.
	PollInterval time.Duration

	// Channels to refresh. Empty means all channels.
	Channels []domain.Channel

	// Once makes Run perform a single pass and return.
	Once bool
}

// Controller owns the synchronization loop: the repeating timer, the
// refresh status, and the hand-off to renderers and the notification
// pipeline. It is constructed once per process; hidden module-level state
// is deliberately absent.
type Controller struct {
	cfg       ControllerConfig
	feeds     FeedFetcher
	session   *store.Session
	renderers map[domain.Channel]ports.Renderer
	checker   VersionChecker
	emitter   RefreshEmitter
	logger    log.Logger

	wake chan struct{}

	mu          sync.Mutex
	lastRefresh time.Time
	lastFailed  bool
}

// NewController creates a synchronization controller.
func NewController(cfg ControllerConfig, feeds FeedFetcher, session *store.Session, renderers map[domain.Channel]ports.Renderer, checker VersionChecker, emitter RefreshEmitter, logger log.Logger) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if len(cfg.Channels) == 0 {
		cfg.Channels = domain.AllChannels
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Controller{
		cfg:       cfg,
		feeds:     feeds,
		session:   session,
		renderers: renderers,
		checker:   checker,
		emitter:   emitter,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Run executes the synchronization loop: an immediate pass, then one pass
// per poll interval until the context is canceled. Wake() forces an
// out-of-cycle pass. Returns ctx.Err() on cancellation, nil in Once mode.
func (c *Controller) Run(ctx context.Context) error {
	c.pass(ctx)
	if c.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	lastPass := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
			c.logger.Debug("woken, refreshing out of cycle")
			c.pass(ctx)
			lastPass = time.Now()
			ticker.Reset(c.cfg.PollInterval)
		case <-ticker.C:
			// A tick arriving far late means the process was suspended
			// (laptop lid, container freeze) and has just resumed.
			if gap := time.Since(lastPass); gap > 2*c.cfg.PollInterval {
				c.logger.Info("resumed after suspension",
					log.Duration("gap", gap), log.Time("last_pass", lastPass))
			}
			c.pass(ctx)
			lastPass = time.Now()
		}
	}
}

// Wake schedules an immediate refresh pass. Safe to call from any
// goroutine; coalesces if a wake is already pending.
func (c *Controller) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Status returns the last successful refresh time (zero if none yet) and
// whether the most recent pass failed.
func (c *Controller) Status() (lastRefresh time.Time, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh, c.lastFailed
}

// pass runs one refresh followed by the notification pipeline's check.
func (c *Controller) pass(ctx context.Context) {
	refreshed := c.Refresh(ctx)
	if refreshed && c.checker != nil {
		c.checker.CheckAndNotify(ctx)
	}
}

// channelResult carries one channel's fetch outcome.
type channelResult struct {
	channel domain.Channel
	items   []domain.ContentRecord
	err     error
}

// Refresh fetches all configured channels concurrently and hands each
// successful collection to its renderer. It is a no-op in the locked state
// (no token). Announcements failures are tolerated and render as empty;
// news and signals failures mark the pass failed without stopping the loop.
// Reports whether a pass actually ran.
func (c *Controller) Refresh(ctx context.Context) bool {
	token := c.session.Token()
	if token == "" {
		c.logger.Debug("refresh skipped, no access token")
		return false
	}

	started := time.Now()
	results := make([]channelResult, len(c.cfg.Channels))

	var wg sync.WaitGroup
	for i, ch := range c.cfg.Channels {
		wg.Add(1)
		go func(i int, ch domain.Channel) {
			defer wg.Done()
			items, err := c.feeds.Feed(ctx, ch, token)
			results[i] = channelResult{channel: ch, items: items, err: err}
		}(i, ch)
	}
	wg.Wait()

	failed := false
	for _, res := range results {
		if res.err != nil {
			if res.channel == domain.ChannelAnnouncements {
				// The channel may not exist for all deployments.
				c.logger.Debug("announcements fetch failed, rendering empty",
					log.Err(res.err))
				res.items = []domain.ContentRecord{}
			} else {
				c.logger.Warn("feed fetch failed",
					log.String("channel", string(res.channel)), log.Err(res.err))
				failed = true
				continue
			}
		}
		if res.items == nil {
			res.items = []domain.ContentRecord{}
		}
		if r, ok := c.renderers[res.channel]; ok && r != nil {
			r.Render(res.items)
		}
	}

	duration := time.Since(started)
	c.mu.Lock()
	c.lastFailed = failed
	if !failed {
		c.lastRefresh = time.Now()
	}
	c.mu.Unlock()

	if failed {
		c.logger.Warn("refresh failed", log.Duration("duration", duration))
	} else {
		c.logger.Info("refresh complete", log.Duration("duration", duration))
	}
	if c.emitter != nil {
		c.emitter.OnRefresh(!failed, duration)
	}
	return true
}
