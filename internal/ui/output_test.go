package ui

import (
	"strings"
	"testing"
)

func TestStatusMessages(t *testing.T) {
	if got := Success("saved"); got != "✓ saved" {
		t.Errorf("Success() = %q", got)
	}
	if got := Successf("imported %d", 3); got != "✓ imported 3" {
		t.Errorf("Successf() = %q", got)
	}
	if got := Error("failed"); got != "✗ failed" {
		t.Errorf("Error() = %q", got)
	}
	if got := Warning("careful"); got != "⚠ careful" {
		t.Errorf("Warning() = %q", got)
	}
	if got := Info("note"); got != "ℹ note" {
		t.Errorf("Info() = %q", got)
	}
}

func TestKeyValuesAlignsAndSkipsEmpty(t *testing.T) {
	out := KeyValues([]Field{
		{Label: "id", Value: "4"},
		{Label: "category", Value: ""},
		{Label: "name", Value: "Fire Shard"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "id  ") || !strings.HasSuffix(lines[0], "  4") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if strings.Contains(out, "category") {
		t.Errorf("empty field should be skipped: %q", out)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "item", "items"); got != "1 item" {
		t.Errorf("Count(1) = %q", got)
	}
	if got := Count(0, "item", "items"); got != "0 items" {
		t.Errorf("Count(0) = %q", got)
	}
}
