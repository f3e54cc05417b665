// Package plugin wires Wikilinx into a host runtime: it builds every
// component on load and detaches from the host on unload.
package plugin

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wikilinx/wikilinx/internal/agent"
	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/menu"
	"github.com/wikilinx/wikilinx/internal/resolver"
)

// Name is the plugin and window system name.
const Name = "Wikilinx"

// Plugin is a loaded instance of Wikilinx.
type Plugin struct {
	Settings   *config.Store
	Translator *i18n.Translator
	Resolver   *resolver.Resolver
	Agents     *agent.Registry
	Engine     *menu.Engine
	Windows    *WindowSystem

	configWindow *ConfigWindow
	logger       *slog.Logger
	detach       []func()
	disposed     bool
}

// New loads the plugin into host. If construction fails part way, whatever
// was already registered is removed before the error is returned.
func New(host Host) (p *Plugin, err error) {
	logger := host.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if host.ContextMenu == nil {
		return nil, errors.New("host has no context menu service")
	}

	p = &Plugin{
		logger:  logger,
		Windows: NewWindowSystem(Name),
	}
	defer func() {
		if err != nil {
			p.Dispose()
			p = nil
		}
	}()

	p.Settings = config.OpenStore(host.SettingsPath, logger)

	p.Translator, err = i18n.New(host.Language)
	if err != nil {
		return p, fmt.Errorf("load translations: %w", err)
	}

	table := host.IDTable
	if table == nil {
		logger.Warn("no identifier table loaded, Eorzea Database links are unavailable")
		table = idtable.FromLines(nil)
	}

	p.Resolver = resolver.New(resolver.Options{
		Catalog:         host.Catalog,
		Table:           table,
		Settings:        p.Settings,
		DatabaseBaseURL: p.Translator.DatabaseBaseURL(),
		Logger:          logger,
	})

	p.Agents = agent.NewRegistry(host.Memory)

	p.Engine = menu.New(menu.Options{
		Resolver:   p.Resolver,
		Settings:   p.Settings,
		Extractor:  p.Agents,
		Hover:      host.Hover,
		Opener:     host.Opener,
		Notifier:   host.Notifier,
		Translator: p.Translator,
		Logger:     logger,
	})

	p.configWindow = NewConfigWindow(p.Settings, p.Translator)

	p.detach = append(p.detach, host.ContextMenu.Subscribe(p.Engine.OnMenuOpened))
	p.Windows.AddWindow(p.configWindow)

	if host.UI != nil {
		p.detach = append(p.detach,
			host.UI.OnDraw(p.Windows.Draw),
			host.UI.OnOpenConfig(p.ToggleConfigUI),
		)
	}

	logger.Debug("plugin loaded",
		"language", host.Language.String(),
		"region", p.Translator.Region(),
		"id_table_lines", table.Len())
	return p, nil
}

// Dispose removes every window and detaches every host handler. It may be
// called more than once and on a partially constructed plugin.
func (p *Plugin) Dispose() {
	if p == nil || p.disposed {
		return
	}
	p.disposed = true

	if p.Windows != nil {
		p.Windows.RemoveAllWindows()
	}
	for i := len(p.detach) - 1; i >= 0; i-- {
		if p.detach[i] != nil {
			p.detach[i]()
		}
	}
	p.detach = nil
}

// ToggleConfigUI opens or closes the settings window.
func (p *Plugin) ToggleConfigUI() {
	if p.configWindow != nil {
		p.configWindow.Toggle()
	}
}

// ConfigWindow returns the settings window.
func (p *Plugin) ConfigWindow() *ConfigWindow {
	return p.configWindow
}
