package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/javi11/flashverify/internal/utils"
)

// TerminalReporter redraws a single status line in place.
type TerminalReporter struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	lastOp  Op
	open    bool
}

// NewTerminalReporter returns a reporter that draws on out only when out is a
// terminal.
func NewTerminalReporter(out *os.File) *TerminalReporter {
	return &TerminalReporter{
		out:     out,
		enabled: out != nil && term.IsTerminal(int(out.Fd())),
	}
}

// Enabled reports whether updates are drawn
func (tr *TerminalReporter) Enabled() bool {
	return tr.enabled
}

func (tr *TerminalReporter) Report(u Update) {
	if !tr.enabled {
		return
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.open && tr.lastOp != u.Op {
		fmt.Fprintln(tr.out)
	}
	fmt.Fprintf(tr.out, "\r%-7s %6.2f%%  %s / %s", u.Op, u.Percent,
		utils.FormatBytes(u.Done), utils.FormatBytes(u.Total))
	tr.lastOp = u.Op
	tr.open = true

	if u.Done >= u.Total {
		fmt.Fprintln(tr.out)
		tr.open = false
	}
}
