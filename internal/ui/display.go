package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters for one output stream.
type DisplayContext struct {
	TermWidth int  // detected or fallback terminal width
	IsTTY     bool // whether the stream is a terminal
}

// NewDisplayContext inspects w. Streams that are not terminals get the
// fallback width.
func NewDisplayContext(w io.Writer) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}

	f, ok := w.(*os.File)
	if !ok {
		return d
	}
	fd := f.Fd()
	d.IsTTY = term.IsTerminal(fd)
	if d.IsTTY {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			d.TermWidth = width
		}
	}
	return d
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width (for testing).
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{
		TermWidth: width,
		IsTTY:     true,
	}
}

// WrapWidth returns the width markdown should wrap at.
func (d *DisplayContext) WrapWidth() int {
	if d == nil || d.TermWidth <= 0 {
		return DefaultTermWidth - MarkdownRenderMargin*2
	}
	return d.TermWidth - MarkdownRenderMargin*2
}
