package cli

import (
	"fmt"
	"io"

	"github.com/wikilinx/wikilinx/internal/menu"
	"github.com/wikilinx/wikilinx/internal/ui"
)

// terminalNotifier prints menu notifications and keeps them for JSON
// warnings.
type terminalNotifier struct {
	out   io.Writer
	quiet bool

	sent []menu.Notification
}

// Notify implements menu.Notifier.
func (n *terminalNotifier) Notify(note menu.Notification) {
	n.sent = append(n.sent, note)
	if n.quiet || n.out == nil {
		return
	}

	line := ui.Bold.Render(note.Title) + ": " + note.Content
	switch note.Type {
	case menu.NotificationError:
		line = ui.Error(line)
	case menu.NotificationWarning:
		line = ui.Warning(line)
	default:
		line = ui.Info(line)
	}
	fmt.Fprintln(n.out, line)
}

// warnings converts the notifications sent so far into JSON warnings.
func (n *terminalNotifier) warnings() []Warning {
	var out []Warning
	for _, note := range n.sent {
		out = append(out, Warning{Code: WarnNotification, Message: note.Content})
	}
	return out
}
