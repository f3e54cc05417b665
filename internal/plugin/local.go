package plugin

import (
	"strconv"
	"unicode/utf8"

	"github.com/wikilinx/wikilinx/internal/menu"
)

// LocalContextMenu is an in-process ContextMenu. Open delivers an event to
// every subscriber in registration order.
type LocalContextMenu struct {
	handlers map[int]func(*menu.OpenedArgs)
	order    []int
	next     int
}

// Subscribe implements ContextMenu.
func (m *LocalContextMenu) Subscribe(handler func(*menu.OpenedArgs)) func() {
	if m.handlers == nil {
		m.handlers = make(map[int]func(*menu.OpenedArgs))
	}
	id := m.next
	m.next++
	m.handlers[id] = handler
	m.order = append(m.order, id)

	return func() { delete(m.handlers, id) }
}

// Subscribers returns the number of registered handlers.
func (m *LocalContextMenu) Subscribers() int {
	return len(m.handlers)
}

// Open raises a menu-open event and returns the args after every handler ran.
func (m *LocalContextMenu) Open(args *menu.OpenedArgs) *menu.OpenedArgs {
	for _, id := range m.order {
		if h, ok := m.handlers[id]; ok {
			h(args)
		}
	}
	return args
}

// LocalUI is an in-process UIBuilder driven by explicit calls.
type LocalUI struct {
	draw       map[int]func(Widgets)
	openConfig map[int]func()
	next       int
}

// OnDraw implements UIBuilder.
func (u *LocalUI) OnDraw(handler func(Widgets)) func() {
	if u.draw == nil {
		u.draw = make(map[int]func(Widgets))
	}
	id := u.next
	u.next++
	u.draw[id] = handler
	return func() { delete(u.draw, id) }
}

// OnOpenConfig implements UIBuilder.
func (u *LocalUI) OnOpenConfig(handler func()) func() {
	if u.openConfig == nil {
		u.openConfig = make(map[int]func())
	}
	id := u.next
	u.next++
	u.openConfig[id] = handler
	return func() { delete(u.openConfig, id) }
}

// Frame runs one draw pass.
func (u *LocalUI) Frame(w Widgets) {
	for _, h := range u.draw {
		h(w)
	}
}

// OpenConfig presses the host's settings button.
func (u *LocalUI) OpenConfig() {
	for _, h := range u.openConfig {
		h()
	}
}

// Handlers returns the number of registered draw and settings handlers.
func (u *LocalUI) Handlers() int {
	return len(u.draw) + len(u.openConfig)
}

// EditWidgets applies queued edits, keyed by widget ID, during a draw pass.
// Widgets without an edit report no change.
type EditWidgets struct {
	Edits map[string]string

	// Applied lists the IDs whose edits were consumed.
	Applied []string
	// Invalid lists IDs whose edit could not be parsed for the widget type.
	Invalid []string
}

// Checkbox implements Widgets. Edits are parsed with strconv.ParseBool.
func (w *EditWidgets) Checkbox(id, _ string, value *bool) bool {
	raw, ok := w.Edits[id]
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		w.Invalid = append(w.Invalid, id)
		return false
	}
	w.Applied = append(w.Applied, id)
	if v == *value {
		return false
	}
	*value = v
	return true
}

// InputText implements Widgets. Edits longer than maxLen bytes are cut at
// the last rune boundary that fits.
func (w *EditWidgets) InputText(id string, value *string, maxLen int) bool {
	raw, ok := w.Edits[id]
	if !ok {
		return false
	}
	if maxLen > 0 && len(raw) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	w.Applied = append(w.Applied, id)
	if raw == *value {
		return false
	}
	*value = raw
	return true
}

// Text implements Widgets.
func (w *EditWidgets) Text(string) {}

// Spacing implements Widgets.
func (w *EditWidgets) Spacing() {}
