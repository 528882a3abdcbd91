package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"thumbgen/internal/logging"
)

const progressWidth = 30

// progress renders batch progress. Terminals get a redrawn status line,
// anything else gets debug log lines.
type progress struct {
	w       io.Writer
	tty     bool
	printed bool
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w, tty: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update implements batch.ProgressFunc.
func (p *progress) Update(done, total int) {
	if !p.tty {
		logging.Debug("Processing %d/%d", done, total)
		return
	}
	fmt.Fprint(p.w, "\r"+progressLine(done, total))
	p.printed = true
}

// Finish ends the status line.
func (p *progress) Finish() {
	if p.printed {
		fmt.Fprintln(p.w)
		p.printed = false
	}
}

func progressLine(done, total int) string {
	pct := 100
	if total > 0 {
		pct = done * 100 / total
	}
	filled := pct * progressWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressWidth-filled)
	return fmt.Sprintf("Processing %d/%d [%s] %3d%%", done, total, bar, pct)
}
