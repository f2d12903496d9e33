package domain

// Channel identifies one of the independently versioned content streams
// served by the backend.
type Channel string

const (
	ChannelNewsOrders    Channel = "news_orders"
	ChannelSignals       Channel = "signals"
	ChannelAnnouncements Channel = "announcements"
)

// AllChannels lists every channel in dispatch order.
var AllChannels = []Channel{ChannelNewsOrders, ChannelSignals, ChannelAnnouncements}

// Label returns the human-readable name used in alerts and pane headers.
func (c Channel) Label() string {
	switch c {
	case ChannelNewsOrders:
		return "News / Orders"
	case ChannelSignals:
		return "Signals"
	case ChannelAnnouncements:
		return "Announcements"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelNewsOrders, ChannelSignals, ChannelAnnouncements:
		return true
	}
	return false
}

// VersionSnapshot maps each channel to a monotonically non-decreasing
// counter. The backend bumps a counter when new content is published on that
// channel; the client compares snapshots to detect new content without
// transferring payloads.
type VersionSnapshot struct {
	NewsOrders    int64 `json:"news_orders"`
	Signals       int64 `json:"signals"`
	Announcements int64 `json:"announcements"`
}

// At returns the counter for the given channel.
func (v VersionSnapshot) At(c Channel) int64 {
	switch c {
	case ChannelNewsOrders:
		return v.NewsOrders
	case ChannelSignals:
		return v.Signals
	case ChannelAnnouncements:
		return v.Announcements
	default:
		return 0
	}
}

// IsZero reports whether every counter is zero. A zero snapshot is a valid
// baseline: a backend that has never published reports one.
func (v VersionSnapshot) IsZero() bool {
	return v == VersionSnapshot{}
}
