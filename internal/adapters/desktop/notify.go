// Package desktop delivers OS-level notifications and audio cues.
package desktop

import (
	"context"

	"github.com/gen2brain/beeep"
)

// Notifier posts desktop notifications via the platform's notification
// service (D-Bus, Notification Center, toast API).
type Notifier struct{}

// NewNotifier creates a desktop notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// RequestPermission resolves the notification capability. Desktop platforms
// do not prompt the way browsers do: delivery of a probe notification is
// the permission check. A failure to deliver counts as denied.
func (n *Notifier) RequestPermission(ctx context.Context) (bool, error) {
	if err := beeep.Notify("Feedgate", "Notifications enabled.", ""); err != nil {
		return false, nil
	}
	return true, nil
}

// Notify posts a notification.
func (n *Notifier) Notify(ctx context.Context, title, body string) error {
	return beeep.Notify(title, body, "")
}

// Audio plays the new-content cue through the system beeper.
type Audio struct{}

// NewAudio creates the audio cue.
func NewAudio() *Audio {
	return &Audio{}
}

// Probe emits a near-silent, near-instant beep to verify that audio output
// is available before the first real cue.
func (a *Audio) Probe(ctx context.Context) error {
	return beeep.Beep(beeep.DefaultFreq, 1)
}

// Play emits the audible cue.
func (a *Audio) Play(ctx context.Context) error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}
