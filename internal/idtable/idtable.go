// Package idtable maps catalog item indexes to Eorzea Database identifiers.
//
// The table is a newline-delimited text resource where line N (1-based)
// holds the database identifier for item N. An empty line means the item
// has no database page.
//
// No table ships with the binary; hosts load one with Load or Parse.
package idtable

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrInvalidIndex is returned for index 0; the table is 1-based.
	ErrInvalidIndex = errors.New("item index must be at least 1")
	// ErrOutOfRange indicates the index is past the last line of the table.
	ErrOutOfRange = errors.New("item index out of identifier table range")
	// ErrNoMapping indicates the line for the index exists but is empty.
	ErrNoMapping = errors.New("item has no database identifier")
)

// Table is an immutable, indexed copy of the identifier resource.
type Table struct {
	lines []string
}

// Parse reads every line of r into a Table.
func Parse(r io.Reader) (*Table, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read identifier table: %w", err)
	}

	return &Table{lines: lines}, nil
}

// FromLines builds a Table from already-split lines.
func FromLines(lines []string) *Table {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Table{lines: cp}
}

// Load parses the identifier table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open identifier table %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Len returns the number of lines in the table.
func (t *Table) Len() int {
	return len(t.lines)
}

// Count returns the number of items that have a database identifier.
func (t *Table) Count() int {
	n := 0
	for _, line := range t.lines {
		if line != "" {
			n++
		}
	}
	return n
}

// Line returns the raw line for a 1-based index and whether the index is in
// range. An in-range empty line returns ("", true).
func (t *Table) Line(index uint32) (string, bool) {
	if index == 0 || uint64(index) > uint64(len(t.lines)) {
		return "", false
	}
	return t.lines[index-1], true
}

// Lookup returns the database identifier for a normalized item ID.
func (t *Table) Lookup(index uint32) (string, error) {
	if index == 0 {
		return "", ErrInvalidIndex
	}
	line, ok := t.Line(index)
	if !ok {
		return "", fmt.Errorf("%w: index %d, table has %d lines", ErrOutOfRange, index, len(t.lines))
	}
	if line == "" {
		return "", ErrNoMapping
	}
	return line, nil
}

// ScanLookup reads r line by line, skipping index-1 lines and returning the
// next one. It is the streaming equivalent of Parse followed by Lookup and is
// kept for one-off lookups against files too large to hold in memory.
func ScanLookup(r io.Reader, index uint32) (string, error) {
	if index == 0 {
		return "", ErrInvalidIndex
	}

	reader := bufio.NewReader(r)
	for i := uint32(1); i < index; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: index %d, table has %d lines", ErrOutOfRange, index, i)
			}
			return "", fmt.Errorf("read identifier table: %w", err)
		}
	}

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read identifier table: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", fmt.Errorf("%w: index %d, table has %d lines", ErrOutOfRange, index, index-1)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrNoMapping
	}
	return line, nil
}

// IsAbsent reports whether err means "no database page" for the item,
// regardless of whether the index was out of range or the line was empty.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNoMapping) || errors.Is(err, ErrOutOfRange) || errors.Is(err, ErrInvalidIndex)
}
