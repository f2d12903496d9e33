package ports

import (
	"context"
	"time"
)

// Toaster shows a transient visual alert. Implementations that can dismiss
// (terminal areas, UI overlays) clear the message after d; ones that cannot
// simply print it.
type Toaster interface {
	Toast(msg string, d time.Duration)
}

// AudioCue plays the short new-content sound. Probe is the near-silent
// emission used to satisfy platform unlock policies; its success is
// persisted so the unlock gesture is attempted only once per profile.
type AudioCue interface {
	// Probe attempts a near-silent emission. A nil error marks audio as
	// unlocked for the session and the profile.
	Probe(ctx context.Context) error

	// Play emits the audible new-content cue.
	Play(ctx context.Context) error
}

// OsNotifier delivers OS-level notifications.
type OsNotifier interface {
	// RequestPermission asks the platform for notification permission.
	// The outcome is terminal for the session and persisted.
	RequestPermission(ctx context.Context) (granted bool, err error)

	// Notify posts a notification. Only called after permission was granted.
	Notify(ctx context.Context, title, body string) error
}
