package feedgate

import (
	"time"

	"github.com/feedgate-labs/feedgate/internal/app"
)

// State represents the lifecycle state of a Feedgate instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// RefreshEvent is emitted after every refresh pass.
type RefreshEvent struct {
	OK       bool
	Duration time.Duration
}

// NewContentEvent is emitted for each channel whose version counter
// increased, after the alert surfaces fired.
type NewContentEvent struct {
	Channel Channel
	From    int64
	To      int64
}

// EventHandler receives notifications about client activity.
// Methods are called synchronously from the client's goroutines; keep
// them fast or hand off to your own worker.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnRefresh(event RefreshEvent)
	OnNewContent(event NewContentEvent)
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnRefresh(ok bool, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnRefresh(RefreshEvent{OK: ok, Duration: duration})
}

func (e *eventEmitterWrapper) OnNewContent(channel Channel, from, to int64) {
	if e.handler == nil {
		return
	}
	e.handler.OnNewContent(NewContentEvent{Channel: channel, From: from, To: to})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
