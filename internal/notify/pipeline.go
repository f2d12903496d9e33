package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// DefaultToastDuration is how long the visual toast stays up.
const DefaultToastDuration = 4 * time.Second

// VersionFetcher retrieves the backend's current version snapshot.
type VersionFetcher interface {
	Version(ctx context.Context) (domain.VersionSnapshot, error)
}

// NewContentFunc is invoked for every channel that alerted, after the
// alerts were dispatched.
type NewContentFunc func(channel domain.Channel, from, to int64)

// Config holds pipeline settings.
type Config struct {
	// Channels to watch. Empty means all channels.
	Channels []domain.Channel

	// EnableAudioCue and EnableOsNotifications gate the respective alert
	// surfaces independently of permission state.
	EnableAudioCue        bool
	EnableOsNotifications bool

	// ToastDuration is the toast auto-dismiss time. Zero means the default.
	ToastDuration time.Duration
}

// Pipeline compares fetched version snapshots against the cached one and
// fires the three alert surfaces for channels whose counter increased.
// A failed version fetch is swallowed: this is a best-effort background
// check, never a critical path.
type Pipeline struct {
	versions VersionFetcher
	session  *store.Session
	toaster  ports.Toaster
	audio    ports.AudioCue
	osn      ports.OsNotifier
	perms    *Permissions
	logger   log.Logger

	channels      []domain.Channel
	toastDuration time.Duration
	enableAudio   bool
	enableOs      bool
	onNewContent  NewContentFunc
}

// NewPipeline creates a notification pipeline.
func NewPipeline(cfg Config, versions VersionFetcher, session *store.Session, toaster ports.Toaster, audio ports.AudioCue, osn ports.OsNotifier, perms *Permissions, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	channels := cfg.Channels
	if len(channels) == 0 {
		channels = domain.AllChannels
	}
	toastDuration := cfg.ToastDuration
	if toastDuration <= 0 {
		toastDuration = DefaultToastDuration
	}
	return &Pipeline{
		versions:      versions,
		session:       session,
		toaster:       toaster,
		audio:         audio,
		osn:           osn,
		perms:         perms,
		logger:        logger,
		channels:      channels,
		toastDuration: toastDuration,
		enableAudio:   cfg.EnableAudioCue,
		enableOs:      cfg.EnableOsNotifications,
	}
}

// SetNewContentFunc installs a hook called once per alerting channel.
func (p *Pipeline) SetNewContentFunc(fn NewContentFunc) { p.onNewContent = fn }

// CheckAndNotify fetches the current snapshot, alerts for channels whose
// counter increased, and replaces the cached snapshot unconditionally.
//
// First-run suppression: when no baseline has ever been stored, the fetched
// snapshot only seeds it and no alerts fire, so a first session never opens
// with a notification storm. The sentinel is the key's absence, not the
// snapshot value: an all-zero fetch is a valid baseline and must not leave
// the client stuck in the seeding branch.
func (p *Pipeline) CheckAndNotify(ctx context.Context) {
	fetched, err := p.versions.Version(ctx)
	if err != nil {
		p.logger.Debug("version check failed", log.Err(err))
		return
	}

	cached, known := p.session.VersionCache()
	if !known {
		p.session.SetVersionCache(fetched)
		p.logger.Debug("version baseline seeded",
			log.Int64("news_orders", fetched.NewsOrders),
			log.Int64("signals", fetched.Signals),
			log.Int64("announcements", fetched.Announcements))
		return
	}

	for _, ch := range p.channels {
		from, to := cached.At(ch), fetched.At(ch)
		if to <= from {
			continue
		}
		p.alert(ctx, ch)
		if p.onNewContent != nil {
			p.onNewContent(ch, from, to)
		}
	}

	// Replaced even when nothing increased, so backend corrections to other
	// channels are tracked.
	p.session.SetVersionCache(fetched)
}

// alert dispatches the three surfaces in order: toast, audio cue, OS
// notification. The latter two are gated by the session's permission state.
func (p *Pipeline) alert(ctx context.Context, ch domain.Channel) {
	msg := fmt.Sprintf("New content in %s", ch.Label())
	p.logger.Info("new content", log.String("channel", string(ch)))

	if p.toaster != nil {
		p.toaster.Toast(msg, p.toastDuration)
	}
	if p.enableAudio && p.audio != nil && p.perms.AudioUnlocked() {
		if err := p.audio.Play(ctx); err != nil {
			p.logger.Debug("audio cue failed", log.Err(err))
		}
	}
	if p.enableOs && p.osn != nil && p.perms.NotificationsGranted() {
		if err := p.osn.Notify(ctx, "Feedgate", msg); err != nil {
			p.logger.Debug("os notification failed", log.Err(err))
		}
	}
}
