// Package menu adds wiki and Eorzea Database entries to item context menus.
//
// Everything here runs inside host UI callbacks. No error or panic may escape
// OnMenuOpened or a click handler; failures are logged and, on click, shown
// to the user as a notification.
package menu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/resolver"
)

// Type is the kind of context menu that was opened.
type Type int

const (
	// Default menus belong to a UI panel (addon) and carry no item.
	Default Type = iota
	// Inventory menus target an inventory slot.
	Inventory
)

func (t Type) String() string {
	if t == Inventory {
		return "inventory"
	}
	return "default"
}

// Glyph is a private-use game font icon shown before a menu entry.
type Glyph rune

const (
	BoxedLetterE Glyph = 0xE075
	BoxedLetterW Glyph = 0xE087
)

// PrefixColor is the UI color row used for entry glyphs.
const PrefixColor uint16 = 28

// Item is one context menu entry.
type Item struct {
	Name        string
	Prefix      Glyph
	PrefixColor uint16
	OnClicked   func()
}

// InventoryTarget is the inventory slot a menu was opened on.
type InventoryTarget struct {
	BaseItemID uint32
}

// OpenedArgs describes a context menu being opened. Entries added through
// AddMenuItem are shown by the host.
type OpenedArgs struct {
	Type      Type
	AddonName string
	// Target is set for Inventory menus whose slot holds an item.
	Target *InventoryTarget

	itemID uint32
	items  []Item
}

// AddMenuItem appends an entry to the menu.
func (a *OpenedArgs) AddMenuItem(it Item) {
	a.items = append(a.items, it)
}

// ItemID returns the normalized item the menu was opened on, or 0 when none
// could be determined.
func (a *OpenedArgs) ItemID() uint32 {
	return a.itemID
}

// Items returns the entries added so far.
func (a *OpenedArgs) Items() []Item {
	return a.items
}

// Entry identifies a kind of menu entry.
type Entry int

const (
	EntryWiki Entry = iota
	EntryDatabase
)

func (e Entry) String() string {
	switch e {
	case EntryWiki:
		return "wiki"
	case EntryDatabase:
		return "database"
	}
	return fmt.Sprintf("Entry(%d)", int(e))
}

// Entries decides which entries a menu gets. It depends only on the feature
// flags and whether the item resolved.
func Entries(s config.Settings, resolved bool) []Entry {
	if !resolved {
		return nil
	}
	var out []Entry
	if s.WikiEnabled {
		out = append(out, EntryWiki)
	}
	if s.LodestoneEnabled {
		out = append(out, EntryDatabase)
	}
	return out
}

// ItemExtractor returns the item a panel's context menu refers to.
type ItemExtractor interface {
	Extract(addon string) (uint32, error)
}

// HoverSource reports the raw ID of the item under the cursor.
type HoverSource interface {
	HoveredItem() uint64
}

// LinkOpener hands a URL to the user's default handler.
type LinkOpener interface {
	OpenLink(url string) error
}

// Translator localizes user-facing strings.
type Translator interface {
	Translate(key string) string
}

type identity struct{}

func (identity) Translate(key string) string { return key }

// Options configures an Engine.
type Options struct {
	Resolver   *resolver.Resolver
	Settings   resolver.SettingsSource
	Extractor  ItemExtractor
	Hover      HoverSource
	Opener     LinkOpener
	Notifier   Notifier
	Translator Translator
	Logger     *slog.Logger
}

// Engine builds menu entries and their click handlers.
type Engine struct {
	resolver  *resolver.Resolver
	settings  resolver.SettingsSource
	extractor ItemExtractor
	hover     HoverSource
	opener    LinkOpener
	notifier  Notifier
	tr        Translator
	logger    *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		resolver:  opts.Resolver,
		settings:  opts.Settings,
		extractor: opts.Extractor,
		hover:     opts.Hover,
		opener:    opts.Opener,
		notifier:  opts.Notifier,
		tr:        opts.Translator,
		logger:    opts.Logger,
	}
	if e.tr == nil {
		e.tr = identity{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	return e
}

func (e *Engine) currentSettings() config.Settings {
	if e.settings == nil {
		return config.Defaults()
	}
	return e.settings.Settings()
}

// itemID determines the normalized item a menu was opened on, or 0.
func (e *Engine) itemID(args *OpenedArgs) uint32 {
	if args.Type == Inventory {
		if args.Target == nil {
			return 0
		}
		return resolver.Normalize(uint64(args.Target.BaseItemID))
	}

	var id uint32
	if e.extractor != nil {
		var err error
		id, err = e.extractor.Extract(args.AddonName)
		if err != nil {
			e.logger.Debug("item extraction failed", "addon", args.AddonName, "error", err)
		}
	}
	if id != 0 {
		return id
	}

	e.logger.Warn("failed to get item ID from agent, attempting hovered item", "addon", args.AddonName)
	if e.hover == nil {
		return 0
	}
	return resolver.Normalize(e.hover.HoveredItem())
}

// OnMenuOpened adds the enabled entries for the menu's item. Menus whose item
// cannot be determined or resolved are left unchanged.
func (e *Engine) OnMenuOpened(args *OpenedArgs) {
	if args == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic while building context menu", "addon", args.AddonName, "panic", r)
		}
	}()

	id := e.itemID(args)
	args.itemID = id
	if id == 0 {
		e.logger.Warn("failed to get item ID", "addon", args.AddonName, "menu", args.Type)
		return
	}

	_, err := e.resolver.Item(uint64(id))
	if err != nil {
		if errors.Is(err, resolver.ErrItemNotFound) {
			e.logger.Warn("failed to get item data", "item_id", id)
		} else {
			e.logger.Error("item lookup failed", "item_id", id, "error", err)
		}
		return
	}

	for _, entry := range Entries(e.currentSettings(), true) {
		switch entry {
		case EntryWiki:
			args.AddMenuItem(Item{
				Name:        e.tr.Translate("Open Wiki Page"),
				Prefix:      BoxedLetterW,
				PrefixColor: PrefixColor,
				OnClicked:   e.clickHandler(id, e.openWikiAndReport),
			})
		case EntryDatabase:
			args.AddMenuItem(Item{
				Name:        e.tr.Translate("Open Eorzea DB Page"),
				Prefix:      BoxedLetterE,
				PrefixColor: PrefixColor,
				OnClicked:   e.clickHandler(id, e.openDatabaseAndReport),
			})
		}
	}
}

// clickHandler wraps action so nothing it does can reach the host.
func (e *Engine) clickHandler(id uint32, action func(uint32)) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("failed on context menu", "item_id", id, "panic", r)
			}
		}()
		action(id)
	}
}

// ErrNoDatabasePage indicates the item has no Eorzea Database identifier.
var ErrNoDatabasePage = errors.New("no Eorzea Database page for item")

// OpenWiki re-resolves the item and opens its wiki page.
func (e *Engine) OpenWiki(id uint32) (string, error) {
	res, err := e.resolver.Resolve(uint64(id))
	if err != nil {
		return "", err
	}
	e.logger.Debug("opening wiki page", "item", res.Name, "item_id", res.ID, "url", res.WikiURL)
	if err := e.open(res.WikiURL); err != nil {
		return res.WikiURL, err
	}
	return res.WikiURL, nil
}

// OpenDatabase re-resolves the item's database identifier and opens its
// Eorzea Database page. Items without one return ErrNoDatabasePage.
func (e *Engine) OpenDatabase(id uint32) (string, error) {
	externalID, err := e.resolver.ExternalID(id)
	if err != nil {
		if idtable.IsAbsent(err) {
			e.logger.Error("couldn't fetch database identifier", "item_id", id, "error", err)
			return "", fmt.Errorf("%w: %w", ErrNoDatabasePage, err)
		}
		return "", err
	}

	url := e.resolver.DatabaseURL(externalID)
	e.logger.Debug("opening database page", "item_id", id, "url", url)
	if err := e.open(url); err != nil {
		return url, err
	}
	return url, nil
}

func (e *Engine) open(url string) error {
	if e.opener == nil {
		return errors.New("no link opener configured")
	}
	if err := e.opener.OpenLink(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (e *Engine) openWikiAndReport(id uint32) {
	if _, err := e.OpenWiki(id); err != nil {
		e.logger.Error("failed on context menu", "item_id", id, "error", err)
		e.notifier.Notify(e.failure(id,
			"Unable to open wiki page for item: ",
			"Couldn't open wiki page..."))
	}
}

func (e *Engine) openDatabaseAndReport(id uint32) {
	_, err := e.OpenDatabase(id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoDatabasePage):
		e.notifier.Notify(e.failure(id,
			"Unable to find Eorzea DB page for item: ",
			"Couldn't find Eorzea DB page..."))
	default:
		e.logger.Error("failed on context menu", "item_id", id, "error", err)
		e.notifier.Notify(e.failure(id,
			"Unable to open Eorzea DB page for item: ",
			"Couldn't open Eorzea DB page..."))
	}
}

// failure builds the error notification shown after a failed click.
func (e *Engine) failure(id uint32, contentKey, minimizedKey string) Notification {
	name := e.tr.Translate("Couldn't get name")
	if it, err := e.resolver.Item(uint64(id)); err == nil {
		name = it.Name
	}
	return Notification{
		Type:          NotificationError,
		Title:         e.tr.Translate("Wikilinx Error"),
		Content:       e.tr.Translate(contentKey) + name,
		MinimizedText: e.tr.Translate(minimizedKey),
	}
}
