package plugin

import (
	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/menu"
)

// Widget IDs double as the settings file keys they edit.
const (
	WidgetLodestoneEnabled      = "lodestone_enabled"
	WidgetWikiEnabled           = "wiki_enabled"
	WidgetWikiURL               = "wiki_url"
	WidgetReplaceWhitespace     = "replace_whitespace"
	WidgetWhitespaceReplacement = "whitespace_replacement"
)

// maxInputLength caps text inputs, matching the host's input buffer.
const maxInputLength = 1000

// ConfigWindow edits plugin settings. Every change is saved immediately.
type ConfigWindow struct {
	store *config.Store
	tr    menu.Translator
	open  bool
}

// NewConfigWindow creates a closed settings window.
func NewConfigWindow(store *config.Store, tr menu.Translator) *ConfigWindow {
	return &ConfigWindow{store: store, tr: tr}
}

// Title implements Window.
func (w *ConfigWindow) Title() string {
	return w.translate("Wikilinx Configs")
}

// IsOpen implements Window.
func (w *ConfigWindow) IsOpen() bool { return w.open }

// Toggle opens a closed window and closes an open one.
func (w *ConfigWindow) Toggle() { w.open = !w.open }

func (w *ConfigWindow) translate(key string) string {
	if w.tr == nil {
		return key
	}
	return w.tr.Translate(key)
}

// Draw implements Window.
func (w *ConfigWindow) Draw(ui Widgets) {
	s := w.store.Settings()

	lodestone := s.LodestoneEnabled
	if ui.Checkbox(WidgetLodestoneEnabled, w.translate("Enable Eorzea DB Integration"), &lodestone) {
		_ = w.store.Update(func(s *config.Settings) { s.LodestoneEnabled = lodestone })
	}

	ui.Spacing()

	wiki := s.WikiEnabled
	if ui.Checkbox(WidgetWikiEnabled, w.translate("Enable Wiki Integration"), &wiki) {
		_ = w.store.Update(func(s *config.Settings) { s.WikiEnabled = wiki })
	}

	ui.Text(w.translate("Wiki URL:"))
	wikiURL := s.WikiURL
	if ui.InputText(WidgetWikiURL, &wikiURL, maxInputLength) {
		_ = w.store.Update(func(s *config.Settings) { s.WikiURL = wikiURL })
	}

	whitespace := s.ReplaceWhitespace
	if ui.Checkbox(WidgetReplaceWhitespace, w.translate("Replace whitespace in item name"), &whitespace) {
		_ = w.store.Update(func(s *config.Settings) { s.ReplaceWhitespace = whitespace })
	}

	ui.Text(w.translate("Replace whitespace with:"))
	replacement := s.WhitespaceReplacement
	if ui.InputText(WidgetWhitespaceReplacement, &replacement, maxInputLength) {
		_ = w.store.Update(func(s *config.Settings) { s.WhitespaceReplacement = replacement })
	}
}
