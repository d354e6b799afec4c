package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters, auto-detecting terminal width.
type DisplayContext struct {
	TermWidth int  // detected or fallback terminal width
	IsTTY     bool // whether stdout is a terminal
}

// NewDisplayContext creates a DisplayContext for stdout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	isTTY := term.IsTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	return &DisplayContext{
		TermWidth: width,
		IsTTY:     isTTY,
	}
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width (for testing).
func NewDisplayContextWithWidth(width int, isTTY bool) *DisplayContext {
	return &DisplayContext{
		TermWidth: width,
		IsTTY:     isTTY,
	}
}

// RenderMarkdown renders md for a terminal, or returns it unchanged when
// stdout is not a terminal (pipes and files get plain markdown).
func (d *DisplayContext) RenderMarkdown(md string) string {
	if !d.IsTTY {
		return md
	}
	out, err := RenderMarkdown(md, d.TermWidth)
	if err != nil {
		return md
	}
	return out
}

// StdinIsInteractive reports whether stdin is attached to a terminal.
func StdinIsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
