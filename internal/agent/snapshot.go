package agent

import (
	"fmt"
)

type offsetKey struct {
	agent  string
	offset uintptr
}

type fieldKey struct {
	agent string
	name  string
}

// Snapshot is an in-memory Memory. The terminal host uses it to stand in for
// a running client; unset values read as errors.
type Snapshot struct {
	fields  map[fieldKey]uint64
	offsets map[offsetKey]uint32

	// Hovered is the raw ID of the item under the cursor.
	Hovered uint64
}

// NewSnapshot returns an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		fields:  make(map[fieldKey]uint64),
		offsets: make(map[offsetKey]uint32),
	}
}

// Field implements Memory.
func (s *Snapshot) Field(agent, name string) (uint64, error) {
	v, ok := s.fields[fieldKey{agent, name}]
	if !ok {
		return 0, fmt.Errorf("agent %s has no field %s", agent, name)
	}
	return v, nil
}

// ReadUint32 implements Memory.
func (s *Snapshot) ReadUint32(agent string, offset uintptr) (uint32, error) {
	v, ok := s.offsets[offsetKey{agent, offset}]
	if !ok {
		return 0, fmt.Errorf("agent %s: nothing mapped at 0x%X", agent, offset)
	}
	return v, nil
}

// HoveredItem returns the raw hovered item ID.
func (s *Snapshot) HoveredItem() uint64 {
	return s.Hovered
}

// SetField stores a named agent field.
func (s *Snapshot) SetField(agent, name string, v uint64) {
	s.fields[fieldKey{agent, name}] = v
}

// SetUint32 stores a raw value at an agent offset.
func (s *Snapshot) SetUint32(agent string, offset uintptr, v uint32) {
	s.offsets[offsetKey{agent, offset}] = v
}

// Seed writes an item ID where loc will read it.
func (s *Snapshot) Seed(loc Location, itemID uint64) {
	if loc.Field != "" {
		s.SetField(loc.Agent, loc.Field, itemID)
		return
	}
	s.SetUint32(loc.Agent, loc.Offset, uint32(itemID))
}
