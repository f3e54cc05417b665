package cli

import (
	"fmt"
	"io"

	"github.com/wikilinx/wikilinx/internal/ui"
)

// textWidgets draws plugin windows as read-only text. Each control shows
// the key 'wikilinx config set' accepts for it.
type textWidgets struct {
	out io.Writer
}

func (w textWidgets) Checkbox(id, label string, value *bool) bool {
	box := "[ ]"
	if *value {
		box = ui.Accent.Render("[x]")
	}
	fmt.Fprintf(w.out, "  %s %s %s\n", box, label, ui.Hint("("+id+")"))
	return false
}

func (w textWidgets) InputText(id string, value *string, _ int) bool {
	v := *value
	if v == "" {
		v = ui.Hint("<empty>")
	} else {
		v = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(w.out, "      %s %s\n", v, ui.Hint("("+id+")"))
	return false
}

func (w textWidgets) Text(s string) {
	fmt.Fprintf(w.out, "  %s\n", s)
}

func (w textWidgets) Spacing() {
	fmt.Fprintln(w.out)
}
