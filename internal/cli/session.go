package cli

import (
	"fmt"
	"strings"

	"github.com/wikilinx/wikilinx/internal/agent"
	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/plugin"
)

// session is a plugin loaded into the terminal host.
type session struct {
	plugin   *plugin.Plugin
	catalog  *catalog.DB
	memory   *agent.Snapshot
	menus    *plugin.LocalContextMenu
	ui       *plugin.LocalUI
	opener   *browserOpener
	notifier *terminalNotifier
}

type sessionOptions struct {
	// dryRun prints links instead of launching the browser.
	dryRun bool
}

// catalogPath returns --catalog or the configured catalog path.
func catalogPath() string {
	if strings.TrimSpace(catalogPathFlag) != "" {
		return catalogPathFlag
	}
	return getConfig().CatalogPath(resolvedConfigPath)
}

func openCatalog() (*catalog.DB, error) {
	db, err := catalog.Open(catalogPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCatalog, err)
	}
	return db, nil
}

// loadIDTable returns the configured identifier table, or nil when id_table
// is unset.
func loadIDTable() (*idtable.Table, error) {
	path := getConfig().IDTablePath(resolvedConfigPath)
	if path == "" {
		return nil, nil
	}
	return idtable.Load(path)
}

// newSession opens the catalog and loads the plugin. Callers must Close it.
func newSession(opts sessionOptions) (*session, error) {
	db, err := openCatalog()
	if err != nil {
		return nil, err
	}

	table, err := loadIDTable()
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &session{
		catalog:  db,
		memory:   agent.NewSnapshot(),
		menus:    &plugin.LocalContextMenu{},
		ui:       &plugin.LocalUI{},
		opener:   newBrowserOpener(getConfig().Browser, opts.dryRun),
		notifier: &terminalNotifier{out: stderr, quiet: isJSONOutput()},
	}

	s.plugin, err = plugin.New(plugin.Host{
		ContextMenu:  s.menus,
		UI:           s.ui,
		Catalog:      db,
		Memory:       s.memory,
		Hover:        s.memory,
		Opener:       s.opener,
		Notifier:     s.notifier,
		Logger:       getLogger(),
		Language:     resolvedLanguage,
		SettingsPath: resolvedSettingsPath,
		IDTable:      table,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close unloads the plugin and closes the catalog.
func (s *session) Close() {
	s.plugin.Dispose()
	if err := s.catalog.Close(); err != nil {
		getLogger().Warn("failed to close catalog", "error", err)
	}
}
