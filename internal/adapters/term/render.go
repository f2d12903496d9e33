// Package term renders content panes and toasts to a terminal.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/feedgate-labs/feedgate/internal/domain"
)

// styles is the per-theme set of text decorations.
type styles struct {
	header *pterm.Style
	title  *pterm.Style
	meta   *pterm.Style
	badge  *pterm.Style
}

func stylesFor(theme string) styles {
	if theme == "dark" {
		return styles{
			header: pterm.NewStyle(pterm.FgLightCyan, pterm.Bold),
			title:  pterm.NewStyle(pterm.FgLightWhite, pterm.Bold),
			meta:   pterm.NewStyle(pterm.FgGray),
			badge:  pterm.NewStyle(pterm.FgBlack, pterm.BgLightYellow),
		}
	}
	return styles{
		header: pterm.NewStyle(pterm.FgCyan, pterm.Bold),
		title:  pterm.NewStyle(pterm.FgBlack, pterm.Bold),
		meta:   pterm.NewStyle(pterm.FgDarkGray),
		badge:  pterm.NewStyle(pterm.FgBlack, pterm.BgYellow),
	}
}

// Renderer prints one channel's records as a pane. Pinned records are
// listed first.
type Renderer struct {
	channel domain.Channel
	out     io.Writer
	styles  styles
}

// NewRenderer creates a pane renderer. out may be nil for stdout.
func NewRenderer(channel domain.Channel, theme string, out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{channel: channel, out: out, styles: stylesFor(theme)}
}

// Render prints the pane.
func (r *Renderer) Render(items []domain.ContentRecord) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.header.Sprintf("== %s (%d) ==", r.channel.Label(), len(items)))

	if len(items) == 0 {
		fmt.Fprintln(r.out, r.emptyMessage())
		return
	}

	pinned := lo.Filter(items, func(it domain.ContentRecord, _ int) bool { return bool(it.Pinned) })
	rest := lo.Filter(items, func(it domain.ContentRecord, _ int) bool { return !bool(it.Pinned) })

	for _, it := range append(pinned, rest...) {
		switch r.channel {
		case domain.ChannelSignals:
			r.printSignal(it)
		default:
			r.printPost(it)
		}
	}
}

func (r *Renderer) emptyMessage() string {
	switch r.channel {
	case domain.ChannelSignals:
		return "No signals yet."
	case domain.ChannelAnnouncements:
		return "No announcements."
	default:
		return "No items yet."
	}
}

func (r *Renderer) printPost(it domain.ContentRecord) {
	title := it.Title
	if title == "" && r.channel == domain.ChannelAnnouncements {
		title = "Announcement"
	}
	line := r.styles.title.Sprint(title)
	if it.Tag != "" {
		line += " " + r.styles.badge.Sprintf(" %s ", it.Tag)
	}
	if it.Pinned {
		line += " " + r.styles.badge.Sprint(" Pinned ")
	}
	fmt.Fprintln(r.out, line)
	if it.TS != "" {
		fmt.Fprintln(r.out, r.styles.meta.Sprint(it.TS))
	}
	if it.Body != "" {
		fmt.Fprintln(r.out, it.Body)
	}
	if it.Link != "" {
		fmt.Fprintln(r.out, r.styles.meta.Sprint(it.Link))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) printSignal(it domain.ContentRecord) {
	line := r.styles.title.Sprintf("%s %s", it.Pair, it.Action)
	if it.Pinned {
		line += " " + r.styles.badge.Sprint(" Pinned ")
	}
	fmt.Fprintln(r.out, line)
	if it.TS != "" {
		fmt.Fprintln(r.out, r.styles.meta.Sprint(it.TS))
	}
	fmt.Fprintf(r.out, "Entry: %s | TP: %s | SL: %s\n", it.Entry, it.TP, it.SL)
	if it.Notes != "" {
		fmt.Fprintln(r.out, it.Notes)
	}
	fmt.Fprintln(r.out)
}
