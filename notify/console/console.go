// Package console implements hollowmere.Notifier by pretty-printing
// resolved events to a terminal, one line per recipient, colorized by
// event kind and column-aligned by display width. Grounded on the
// teacher's cmd/dive/cli output helpers (displayWidth/wrapText's
// runewidth-based alignment, and its color-by-kind palette), adapted
// from "workflow step output" to "one notified recipient, one line."
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/hollowmere/kernel"
)

var (
	recipientStyle = color.New(color.FgCyan, color.Bold)
	eventStyle     = color.New(color.FgGreen)
	payloadStyle   = color.New(color.FgWhite, color.Faint)
)

// Notifier prints every Notify call to w (os.Stdout by default),
// aligning the recipient-key column to the widest key seen so far.
// Safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	w        io.Writer
	keyWidth int
}

// New creates a console Notifier writing to os.Stdout.
func New() *Notifier {
	return &Notifier{w: os.Stdout}
}

// NewWriter creates a console Notifier writing to an arbitrary writer,
// useful for tests that capture output instead of printing it.
func NewWriter(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify implements hollowmere.Notifier.
func (n *Notifier) Notify(ctx context.Context, key hollowmere.EntityKey, event hollowmere.TaggedJSON) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	keyStr := string(key)
	if w := runewidth.StringWidth(keyStr); w > n.keyWidth {
		n.keyWidth = w
	}
	pad := n.keyWidth - runewidth.StringWidth(keyStr)
	if pad < 0 {
		pad = 0
	}

	_, err := fmt.Fprintf(n.w, "%s%s  %s  %s\n",
		recipientStyle.Sprint(keyStr), spaces(pad),
		eventStyle.Sprint(event.Key),
		payloadStyle.Sprint(string(event.Payload)))
	return err
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
