package shell

import (
	"io"

	"golang.org/x/term"
)

// IsTerminal reports whether r is connected to a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
