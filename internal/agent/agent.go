// Package agent reads the item a UI panel's context menu refers to from the
// game's agent structures.
//
// Each supported panel keeps the item ID somewhere different. Those locations
// are tied to a specific client build, so they are kept in one table here
// instead of inline with menu logic.
package agent

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wikilinx/wikilinx/internal/resolver"
)

// ErrExtractionUnsupported indicates no extraction strategy exists for the
// panel (addon) name.
var ErrExtractionUnsupported = errors.New("no item extraction strategy for addon")

// Memory reads live agent state from the game process.
type Memory interface {
	// Field reads a named field the host exposes for an agent.
	Field(agent, name string) (uint64, error)
	// ReadUint32 reads four bytes at offset from the start of an agent.
	ReadUint32(agent string, offset uintptr) (uint32, error)
}

// Extractor obtains a raw item ID from memory.
type Extractor interface {
	Extract(mem Memory) (uint64, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(mem Memory) (uint64, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(mem Memory) (uint64, error) {
	return f(mem)
}

// Location is where an agent stores the context item ID. Field is used when
// set; otherwise a uint32 is read at Offset.
type Location struct {
	Agent  string
	Field  string
	Offset uintptr
}

// Extract implements Extractor.
func (l Location) Extract(mem Memory) (uint64, error) {
	if l.Field != "" {
		v, err := mem.Field(l.Agent, l.Field)
		if err != nil {
			return 0, fmt.Errorf("read %s.%s: %w", l.Agent, l.Field, err)
		}
		return v, nil
	}

	v, err := mem.ReadUint32(l.Agent, l.Offset)
	if err != nil {
		return 0, fmt.Errorf("read %s+0x%X: %w", l.Agent, l.Offset, err)
	}
	return uint64(v), nil
}

// DefaultLocations maps addon names to the agent field holding the item
// their context menu was opened on.
var DefaultLocations = map[string]Location{
	"ChatLog":                {Agent: "ChatLog", Field: "ContextItemId"},
	"GatheringNote":          {Agent: "GatheringNote", Offset: 0xA0},
	"GrandCompanySupplyList": {Agent: "GrandCompanySupply", Offset: 0x54},
	"ItemSearch":             {Agent: "Context", Field: "UpdateCheckerParam"},
	"RecipeNote":             {Agent: "RecipeNote", Field: "ContextMenuResultItemId"},
}

// Registry dispatches extraction by exact addon name.
type Registry struct {
	mem        Memory
	extractors map[string]Extractor
}

// NewRegistry returns a Registry with DefaultLocations registered.
func NewRegistry(mem Memory) *Registry {
	r := &Registry{
		mem:        mem,
		extractors: make(map[string]Extractor, len(DefaultLocations)),
	}
	for addon, loc := range DefaultLocations {
		r.extractors[addon] = loc
	}
	return r
}

// Register adds or replaces the strategy for an addon.
func (r *Registry) Register(addon string, ex Extractor) {
	r.extractors[addon] = ex
}

// Supported returns the registered addon names, sorted.
func (r *Registry) Supported() []string {
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract returns the normalized item ID for the addon's context menu.
// Unknown addons return 0 and ErrExtractionUnsupported.
func (r *Registry) Extract(addon string) (uint32, error) {
	ex, ok := r.extractors[addon]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrExtractionUnsupported, addon)
	}
	if r.mem == nil {
		return 0, fmt.Errorf("extract item for %s: no memory reader", addon)
	}

	raw, err := ex.Extract(r.mem)
	if err != nil {
		return 0, err
	}
	return resolver.Normalize(raw), nil
}
