package term

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
)

// Toast prints transient alerts. A terminal scrollback cannot be dismissed,
// so the duration only bounds the optional bell repeat suppression window
// of the surrounding UI; the message itself is printed once.
type Toast struct {
	out io.Writer
}

// NewToast creates a terminal toaster. out may be nil for stdout.
func NewToast(out io.Writer) *Toast {
	if out == nil {
		out = os.Stdout
	}
	return &Toast{out: out}
}

// Toast prints the alert.
func (t *Toast) Toast(msg string, d time.Duration) {
	box := pterm.DefaultBox.WithTitle("feedgate").Sprint(msg)
	fmt.Fprintln(t.out, box)
}
