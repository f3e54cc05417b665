package plugin

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/wikilinx/wikilinx/internal/agent"
	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/menu"
)

type recordingOpener struct{ urls []string }

func (o *recordingOpener) OpenLink(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type textWidgets struct{ lines []string }

func (w *textWidgets) Checkbox(id, label string, value *bool) bool {
	w.lines = append(w.lines, label)
	return false
}
func (w *textWidgets) InputText(id string, value *string, maxLen int) bool {
	w.lines = append(w.lines, *value)
	return false
}
func (w *textWidgets) Text(s string) { w.lines = append(w.lines, s) }
func (w *textWidgets) Spacing()      {}

type testHost struct {
	Host
	menus  *LocalContextMenu
	ui     *LocalUI
	mem    *agent.Snapshot
	opener *recordingOpener
}

func newTestHost(t *testing.T, lang i18n.ClientLanguage) *testHost {
	t.Helper()
	h := &testHost{
		menus:  &LocalContextMenu{},
		ui:     &LocalUI{},
		mem:    agent.NewSnapshot(),
		opener: &recordingOpener{},
	}
	h.Host = Host{
		ContextMenu:  h.menus,
		UI:           h.ui,
		Catalog:      catalog.NewMap(catalog.Item{ID: 3, Name: "Fire Shard"}),
		Memory:       h.mem,
		Hover:        h.mem,
		Opener:       h.opener,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Language:     lang,
		SettingsPath: filepath.Join(t.TempDir(), "settings.toml"),
		IDTable:      idtable.FromLines([]string{"", "", "12345"}),
	}
	return h
}

func TestPluginLifecycle(t *testing.T) {
	h := newTestHost(t, i18n.English)

	p, err := New(h.Host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.menus.Subscribers() != 1 {
		t.Errorf("expected 1 menu subscriber, got %d", h.menus.Subscribers())
	}
	if h.ui.Handlers() != 2 {
		t.Errorf("expected draw and open-config handlers, got %d", h.ui.Handlers())
	}
	if len(p.Windows.Windows()) != 1 {
		t.Errorf("expected the config window to be registered")
	}

	p.Dispose()
	if h.menus.Subscribers() != 0 || h.ui.Handlers() != 0 {
		t.Errorf("dispose left handlers attached: menus=%d ui=%d", h.menus.Subscribers(), h.ui.Handlers())
	}
	if len(p.Windows.Windows()) != 0 {
		t.Error("dispose left windows registered")
	}

	p.Dispose()
	var nilPlugin *Plugin
	nilPlugin.Dispose()
}

func TestPluginHandlesMenuEvents(t *testing.T) {
	h := newTestHost(t, i18n.German)
	p, err := New(h.Host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Dispose()

	if err := p.Settings.Update(func(s *config.Settings) { s.LodestoneEnabled = true }); err != nil {
		t.Fatal(err)
	}

	args := h.menus.Open(&menu.OpenedArgs{Type: menu.Inventory, Target: &menu.InventoryTarget{BaseItemID: 3}})
	items := args.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	if items[0].Name != "Wiki-Seite öffnen" {
		t.Errorf("entry not translated: %q", items[0].Name)
	}

	items[1].OnClicked()
	want := "https://de.finalfantasyxiv.com/lodestone/playguide/db/item/12345"
	if len(h.opener.urls) != 1 || h.opener.urls[0] != want {
		t.Errorf("opened %v, want %s", h.opener.urls, want)
	}

	p.Dispose()
	after := h.menus.Open(&menu.OpenedArgs{Type: menu.Inventory, Target: &menu.InventoryTarget{BaseItemID: 3}})
	if len(after.Items()) != 0 {
		t.Error("disposed plugin still contributes menu entries")
	}
}

func TestPluginRequiresContextMenu(t *testing.T) {
	h := newTestHost(t, i18n.English)
	h.Host.ContextMenu = nil

	p, err := New(h.Host)
	if err == nil {
		t.Fatal("expected error without a context menu service")
	}
	if p != nil {
		t.Error("failed construction should return a nil plugin")
	}
}

func TestPluginWithoutIDTable(t *testing.T) {
	h := newTestHost(t, i18n.English)
	h.Host.IDTable = nil
	var logs strings.Builder
	h.Host.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	var notes []menu.Notification
	h.Host.Notifier = menu.NotifierFunc(func(n menu.Notification) { notes = append(notes, n) })

	p, err := New(h.Host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Dispose()

	if got := strings.Count(logs.String(), "no identifier table loaded"); got != 1 {
		t.Errorf("expected one missing-table warning, got %d:\n%s", got, logs.String())
	}
	if _, err := p.Resolver.ExternalID(3); !errors.Is(err, idtable.ErrOutOfRange) {
		t.Errorf("ExternalID(3) error = %v, want ErrOutOfRange", err)
	}

	if err := p.Settings.Update(func(s *config.Settings) { s.LodestoneEnabled = true }); err != nil {
		t.Fatal(err)
	}
	args := h.menus.Open(&menu.OpenedArgs{Type: menu.Inventory, Target: &menu.InventoryTarget{BaseItemID: 3}})
	items := args.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	items[1].OnClicked()
	if len(h.opener.urls) != 0 {
		t.Errorf("nothing should open without a table, opened %v", h.opener.urls)
	}
	if len(notes) != 1 || !strings.HasSuffix(notes[0].Content, "Fire Shard") {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestToggleConfigUI(t *testing.T) {
	h := newTestHost(t, i18n.English)
	p, err := New(h.Host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Dispose()

	w := &textWidgets{}
	h.ui.Frame(w)
	if len(w.lines) != 0 {
		t.Fatalf("closed window drew %v", w.lines)
	}

	h.ui.OpenConfig()
	h.ui.Frame(w)
	if len(w.lines) == 0 || w.lines[0] != "Wikilinx Configs" {
		t.Fatalf("open window should draw its title first, got %v", w.lines)
	}
	if !strings.Contains(strings.Join(w.lines, "\n"), config.DefaultWikiURL) {
		t.Errorf("window should show the wiki URL, got %v", w.lines)
	}

	p.ToggleConfigUI()
	w.lines = nil
	h.ui.Frame(w)
	if len(w.lines) != 0 {
		t.Errorf("toggled window should be closed, drew %v", w.lines)
	}
}

func TestConfigWindowSavesEveryEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	store := config.OpenStore(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	win := NewConfigWindow(store, nil)

	edits := &EditWidgets{Edits: map[string]string{
		WidgetLodestoneEnabled:      "true",
		WidgetWikiURL:               "https://wiki.example/",
		WidgetReplaceWhitespace:     "true",
		WidgetWhitespaceReplacement: "_",
		WidgetWikiEnabled:           "nope",
	}}
	win.Draw(edits)

	if len(edits.Invalid) != 1 || edits.Invalid[0] != WidgetWikiEnabled {
		t.Errorf("Invalid = %v", edits.Invalid)
	}

	saved, err := config.LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	want := config.Settings{
		Version:               config.SettingsVersion,
		WikiEnabled:           true,
		WikiURL:               "https://wiki.example/",
		ReplaceWhitespace:     true,
		WhitespaceReplacement: "_",
		LodestoneEnabled:      true,
	}
	if saved != want {
		t.Errorf("saved = %+v, want %+v", saved, want)
	}
}

func TestEditWidgetsNoChange(t *testing.T) {
	w := &EditWidgets{Edits: map[string]string{"a": "true", "b": "same"}}

	v := true
	if w.Checkbox("a", "A", &v) {
		t.Error("unchanged checkbox reported a change")
	}
	s := "same"
	if w.InputText("b", &s, 10) {
		t.Error("unchanged input reported a change")
	}
	if len(w.Applied) != 2 {
		t.Errorf("Applied = %v", w.Applied)
	}

	long := ""
	w.Edits["c"] = "abcdef"
	if !w.InputText("c", &long, 3) || long != "abc" {
		t.Errorf("input should be capped, got %q", long)
	}
	w.Edits["d"] = strings.Repeat("a", 999) + "é"
	var accented string
	if !w.InputText("d", &accented, 1000) {
		t.Fatal("expected a change")
	}
	if !utf8.ValidString(accented) || accented != strings.Repeat("a", 999) {
		t.Errorf("cap split a rune: len=%d valid=%v", len(accented), utf8.ValidString(accented))
	}
}
