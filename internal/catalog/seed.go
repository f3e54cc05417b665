package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Items []Item `yaml:"items"`
}

// ParseSeed reads a YAML item list:
//
//	items:
//	  - id: 2
//	    name: Fire Shard
//	    category: Crystal
func ParseSeed(r io.Reader) ([]Item, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse item seed: %w", err)
	}

	seen := make(map[uint32]int, len(seed.Items))
	for i, it := range seed.Items {
		if it.ID == 0 {
			return nil, fmt.Errorf("item %d: id must be at least 1", i+1)
		}
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("item %d (id %d): name is required", i+1, it.ID)
		}
		if prev, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("item %d: duplicate id %d (first seen at item %d)", i+1, it.ID, prev)
		}
		seen[it.ID] = i + 1
	}

	return seed.Items, nil
}

// LoadSeed reads a YAML item list from path.
func LoadSeed(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open item seed %s: %w", path, err)
	}
	defer f.Close()

	return ParseSeed(f)
}
