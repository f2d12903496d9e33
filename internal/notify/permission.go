// Package notify implements the multi-channel notification pipeline:
// version diffing, alert dispatch, and the one-shot permission acquisition
// state machine.
package notify

import (
	"context"
	"sync"

	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// PermissionState is the tri-state outcome of a capability request.
type PermissionState int

const (
	// PermissionUnknown means the capability has never been requested.
	PermissionUnknown PermissionState = iota
	// PermissionGranted and PermissionDenied are terminal for the session.
	PermissionGranted
	PermissionDenied
)

// String returns a short name for the state.
func (s PermissionState) String() string {
	switch s {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Permissions tracks the audio-unlock and OS-notification capabilities.
// Outcomes are persisted so the unlock gesture is attempted once per
// profile; HandleGesture runs its acquisition exactly once per process
// regardless of outcome.
type Permissions struct {
	session *store.Session
	audio   ports.AudioCue
	osn     ports.OsNotifier
	logger  log.Logger

	enableAudio bool
	enableOs    bool

	once sync.Once

	mu            sync.Mutex
	audioUnlocked bool
	notifyState   PermissionState
}

// NewPermissions creates the permission tracker, seeding state from the
// session store.
func NewPermissions(session *store.Session, audio ports.AudioCue, osn ports.OsNotifier, enableAudio, enableOs bool, logger log.Logger) *Permissions {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	p := &Permissions{
		session:     session,
		audio:       audio,
		osn:         osn,
		logger:      logger,
		enableAudio: enableAudio,
		enableOs:    enableOs,
		notifyState: PermissionUnknown,
	}
	p.audioUnlocked = session.AudioUnlocked()
	if granted, known := session.NotifyPermission(); known {
		if granted {
			p.notifyState = PermissionGranted
		} else {
			p.notifyState = PermissionDenied
		}
	}
	return p
}

// HandleGesture performs the one-time acquisition triggered by the first
// user gesture after start: a near-silent audio probe, and an OS
// notification permission request if the outcome is still unknown.
// Subsequent calls are no-ops.
func (p *Permissions) HandleGesture(ctx context.Context) {
	p.once.Do(func() {
		p.mu.Lock()
		needAudio := p.enableAudio && !p.audioUnlocked && p.audio != nil
		needNotify := p.enableOs && p.notifyState == PermissionUnknown && p.osn != nil
		p.mu.Unlock()

		if needAudio {
			if err := p.audio.Probe(ctx); err != nil {
				p.logger.Debug("audio unlock probe failed", log.Err(err))
			} else {
				p.mu.Lock()
				p.audioUnlocked = true
				p.mu.Unlock()
				p.session.SetAudioUnlocked(true)
				p.logger.Debug("audio unlocked")
			}
		}

		if needNotify {
			granted, err := p.osn.RequestPermission(ctx)
			if err != nil {
				p.logger.Debug("notification permission request failed", log.Err(err))
				return
			}
			state := PermissionDenied
			if granted {
				state = PermissionGranted
			}
			p.mu.Lock()
			p.notifyState = state
			p.mu.Unlock()
			p.session.SetNotifyPermission(granted)
			p.logger.Info("notification permission determined",
				log.String("state", state.String()))
		}
	})
}

// AudioUnlocked reports whether the audio cue may play.
func (p *Permissions) AudioUnlocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audioUnlocked
}

// NotificationsGranted reports whether OS notifications may be posted.
func (p *Permissions) NotificationsGranted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifyState == PermissionGranted
}

// NotificationState returns the current OS-notification permission state.
func (p *Permissions) NotificationState() PermissionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifyState
}
