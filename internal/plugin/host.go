package plugin

import (
	"log/slog"

	"github.com/wikilinx/wikilinx/internal/agent"
	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/menu"
)

// ContextMenu delivers context-menu-open events.
type ContextMenu interface {
	// Subscribe registers handler and returns a function that removes it.
	Subscribe(handler func(*menu.OpenedArgs)) (unsubscribe func())
}

// UIBuilder exposes the host's draw loop and its "open settings" button.
type UIBuilder interface {
	OnDraw(handler func(Widgets)) (unsubscribe func())
	OnOpenConfig(handler func()) (unsubscribe func())
}

// Widgets is the immediate-mode toolkit windows draw with. Checkbox and
// InputText return true when the user changed the value this frame.
type Widgets interface {
	Checkbox(id, label string, value *bool) bool
	InputText(id string, value *string, maxLen int) bool
	Text(s string)
	Spacing()
}

// Host bundles the services the plugin runtime injects.
type Host struct {
	ContextMenu ContextMenu
	UI          UIBuilder
	Catalog     catalog.Catalog
	Memory      agent.Memory
	Hover       menu.HoverSource
	Opener      menu.LinkOpener
	Notifier    menu.Notifier
	Logger      *slog.Logger

	// Language is the detected client language.
	Language i18n.ClientLanguage

	// SettingsPath is where the host persists plugin settings.
	SettingsPath string

	// IDTable maps items to Eorzea Database identifiers. When nil, no item
	// has a database page.
	IDTable *idtable.Table
}
