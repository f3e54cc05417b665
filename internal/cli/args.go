package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// parseItemID parses a raw item ID as it appears in the client. Variant
// offsets (HQ, collectable) are accepted and normalized later.
func parseItemID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item ID %q: expected a non-negative integer", s)
	}
	return id, nil
}

// parseIndex parses a 1-based identifier table index.
func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: expected a non-negative integer", s)
	}
	return uint32(n), nil
}
