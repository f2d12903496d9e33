package feedgate

import (
	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Re-export the interfaces callers implement or supply, so embedding
// applications do not need to reach into internal packages.
type (
	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// LogField is the structured log field type from pkg/log.
	LogField = log.Field

	// HTTPClient is the interface for making HTTP requests.
	// *http.Client satisfies this interface.
	HTTPClient = ports.HTTPClient

	// KeyValueStore is the session persistence interface.
	KeyValueStore = ports.KeyValueStore

	// Renderer receives the freshest collection for one channel.
	Renderer = ports.Renderer

	// RendererFunc adapts a function to the Renderer interface.
	RendererFunc = ports.RendererFunc

	// Toaster shows transient visual alerts.
	Toaster = ports.Toaster

	// AudioCue plays the new-content sound.
	AudioCue = ports.AudioCue

	// OsNotifier posts OS-level notifications.
	OsNotifier = ports.OsNotifier
)

// Channel identifies one of the backend's content streams.
type Channel = domain.Channel

// The channels served by the backend.
const (
	ChannelNewsOrders    = domain.ChannelNewsOrders
	ChannelSignals       = domain.ChannelSignals
	ChannelAnnouncements = domain.ChannelAnnouncements
)

// ContentRecord is one feed item.
type ContentRecord = domain.ContentRecord

// VersionSnapshot is the per-channel version counter set.
type VersionSnapshot = domain.VersionSnapshot

// RedemptionError carries the backend's rejection message for a redeem
// attempt, verbatim.
type RedemptionError = domain.RedemptionError

// TransportError is a failure of a single backend request.
type TransportError = domain.TransportError

// Sentinel errors, checkable with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrEmptyCode       = domain.ErrEmptyCode
	ErrRedeemInFlight  = domain.ErrRedeemInFlight
)
