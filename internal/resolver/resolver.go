// Package resolver turns raw item IDs from the game client into wiki and
// Eorzea Database links.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/idtable"
)

// NormalizationModulus folds high-quality, collectable and event variants of
// an item ID back onto the base catalog ID.
const NormalizationModulus = 500000

// ErrItemNotFound indicates the normalized ID has no catalog entry.
var ErrItemNotFound = errors.New("item not found")

// IDTable looks up database identifiers by normalized item ID.
type IDTable interface {
	Lookup(id uint32) (string, error)
}

// SettingsSource provides the current plugin settings.
type SettingsSource interface {
	Settings() config.Settings
}

// ItemContext is everything known about an item for one interaction.
type ItemContext struct {
	RawID         uint64 `json:"raw_id"`
	ID            uint32 `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	WikiURL       string `json:"wiki_url"`
	ExternalID    string `json:"external_id,omitempty"`
	HasExternalID bool   `json:"has_external_id"`
	DatabaseURL   string `json:"database_url,omitempty"`
}

// Options configures a Resolver.
type Options struct {
	Catalog  catalog.Catalog
	Table    IDTable
	Settings SettingsSource

	// DatabaseBaseURL is the region-specific Eorzea Database item prefix.
	// Defaults to the North American site.
	DatabaseBaseURL string

	Logger *slog.Logger
}

// Resolver resolves item IDs against the catalog and identifier table.
type Resolver struct {
	catalog         catalog.Catalog
	table           IDTable
	settings        SettingsSource
	databaseBaseURL string
	logger          *slog.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	r := &Resolver{
		catalog:         opts.Catalog,
		table:           opts.Table,
		settings:        opts.Settings,
		databaseBaseURL: opts.DatabaseBaseURL,
		logger:          opts.Logger,
	}
	if r.databaseBaseURL == "" {
		r.databaseBaseURL = i18n.DatabaseBaseURL(i18n.English)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Normalize reduces a raw item ID to its base catalog ID.
func Normalize(raw uint64) uint32 {
	return uint32(raw % NormalizationModulus)
}

func (r *Resolver) currentSettings() config.Settings {
	if r.settings == nil {
		return config.Defaults()
	}
	return r.settings.Settings()
}

// Item returns the catalog row for a raw item ID.
func (r *Resolver) Item(raw uint64) (catalog.Item, error) {
	id := Normalize(raw)
	if id == 0 || r.catalog == nil {
		return catalog.Item{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}

	it, err := r.catalog.Item(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Item{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	if err != nil {
		return catalog.Item{}, fmt.Errorf("look up item %d: %w", id, err)
	}
	return it, nil
}

// Resolve builds the ItemContext for a raw item ID. A missing database
// identifier is not an error; HasExternalID reports it.
func (r *Resolver) Resolve(raw uint64) (ItemContext, error) {
	it, err := r.Item(raw)
	if err != nil {
		return ItemContext{}, err
	}

	s := r.currentSettings()
	res := ItemContext{
		RawID:    raw,
		ID:       Normalize(raw),
		Name:     it.Name,
		Category: it.Category,
		WikiURL:  FormatWikiURL(s, it.Name),
	}

	externalID, err := r.ExternalID(res.ID)
	switch {
	case err == nil:
		res.ExternalID = externalID
		res.HasExternalID = true
		res.DatabaseURL = r.DatabaseURL(externalID)
	case idtable.IsAbsent(err):
		r.logger.Debug("no database identifier", "item_id", res.ID, "error", err)
	default:
		r.logger.Error("database identifier lookup failed", "item_id", res.ID, "error", err)
	}

	return res, nil
}

// ExternalID returns the Eorzea Database identifier for a normalized item
// ID. Errors from the identifier table are returned unchanged so callers can
// tell idtable.ErrOutOfRange from idtable.ErrNoMapping.
func (r *Resolver) ExternalID(id uint32) (string, error) {
	if r.table == nil {
		return "", idtable.ErrOutOfRange
	}
	return r.table.Lookup(id)
}

// DatabaseURL returns the Eorzea Database page for an external identifier.
func (r *Resolver) DatabaseURL(externalID string) string {
	return r.databaseBaseURL + externalID
}

// FormatWikiURL appends the item name to the configured wiki URL. The name is
// not escaped. When whitespace replacement is enabled, every whitespace rune
// in the name is replaced first.
func FormatWikiURL(s config.Settings, name string) string {
	if s.ReplaceWhitespace {
		name = replaceWhitespace(name, s.WhitespaceReplacement)
	}
	return s.WikiURL + name
}

func replaceWhitespace(s, replacement string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			b.WriteString(replacement)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
