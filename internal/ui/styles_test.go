package ui

import "testing"

func TestNormalizeAccentColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "empty", input: "", expected: "", ok: false},
		{name: "none", input: "none", expected: "", ok: false},
		{name: "off", input: "OFF", expected: "", ok: false},
		{name: "ansi code", input: "39", expected: "39", ok: true},
		{name: "ansi with whitespace", input: "  244 ", expected: "244", ok: true},
		{name: "ansi out of range", input: "256", expected: "", ok: false},
		{name: "negative ansi", input: "-1", expected: "", ok: false},
		{name: "hex 6", input: "#C9A86A", expected: "#c9a86a", ok: true},
		{name: "hex 3", input: "#abc", expected: "#aabbcc", ok: true},
		{name: "hex wrong length", input: "#abcd", expected: "", ok: false},
		{name: "bad hex", input: "#zzzzzz", expected: "", ok: false},
		{name: "color name", input: "gold", expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeAccentColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConfigureTheme(t *testing.T) {
	origAccent, origAccentBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origAccentBold, origColor
	})

	ConfigureTheme("39")
	if got, ok := AccentColor(); !ok || got != "39" {
		t.Fatalf("AccentColor() = %q, %v; want 39, true", got, ok)
	}

	ConfigureTheme("")
	if got, _ := AccentColor(); got != "#c9a86a" {
		t.Fatalf("empty accent should restore the default, got %q", got)
	}

	ConfigureTheme("none")
	if _, ok := AccentColor(); ok {
		t.Fatal("expected accent color to be disabled")
	}
}
