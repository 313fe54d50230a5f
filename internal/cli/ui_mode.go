package cli

import (
	"io"

	"fortio.org/safecast"
	"golang.org/x/term"

	"github.com/aezell/chex/internal/config"
)

// uiModeDecision captures whether to open the interactive list.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// resolveUIMode determines whether to open the interactive list.
func resolveUIMode(mode config.UIMode, stdout io.Writer) uiModeDecision {
	switch mode {
	case config.UIOff:
		return uiModeDecision{useLive: false}
	case config.UIOn:
		if isTerminal(stdout) {
			return uiModeDecision{useLive: true}
		}
		return uiModeDecision{
			useLive: false,
			warning: "Interactive view requested but stdout is not a TTY; falling back to plain output.",
		}
	default:
		return uiModeDecision{useLive: isTerminal(stdout)}
	}
}

// defaultIsTerminal inspects stdout for TTY support.
func defaultIsTerminal(stdout io.Writer) bool {
	fd, ok := fileDescriptor(stdout)
	return ok && term.IsTerminal(fd)
}

// terminalWidth returns the width of the terminal behind w, or 0 when w is
// not a terminal.
func terminalWidth(w io.Writer) int {
	fd, ok := fileDescriptor(w)
	if !ok || !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func fileDescriptor(w io.Writer) (int, bool) {
	if w == nil {
		return 0, false
	}
	fder, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	fd, err := safecast.Conv[int](fder.Fd())
	if err != nil {
		return 0, false
	}
	return fd, true
}
