// Package catalog provides read access to the game's item catalog.
package catalog

import "errors"

// ErrNotFound indicates the catalog has no row for the requested item ID.
var ErrNotFound = errors.New("item not found in catalog")

// Item is one row of the item catalog.
type Item struct {
	ID        uint32 `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Category  string `yaml:"category,omitempty" json:"category,omitempty"`
	ItemLevel int    `yaml:"item_level,omitempty" json:"item_level,omitempty"`
}

// Catalog looks up items by normalized ID.
type Catalog interface {
	Item(id uint32) (Item, error)
}

// Map is an in-memory Catalog.
type Map map[uint32]Item

// NewMap indexes items by ID. Later duplicates replace earlier ones.
func NewMap(items ...Item) Map {
	m := make(Map, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

// Item implements Catalog.
func (m Map) Item(id uint32) (Item, error) {
	it, ok := m[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}
