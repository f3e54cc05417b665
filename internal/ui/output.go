package ui

import (
	"fmt"
	"strings"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return SymbolSuccess + " " + msg
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return SymbolError + " " + msg
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return SymbolWarning + " " + msg
}

// Info returns an info message with info symbol
func Info(msg string) string {
	return SymbolInfo + " " + msg
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Field is one row of a KeyValues block.
type Field struct {
	Label string
	Value string
}

// KeyValues renders fields as aligned "label  value" lines. Labels are muted
// and padded to the widest label. Fields with an empty value are skipped.
func KeyValues(fields []Field) string {
	width := 0
	for _, f := range fields {
		if f.Value != "" && len(f.Label) > width {
			width = len(f.Label)
		}
	}

	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		b.WriteString(Muted.Render(fmt.Sprintf("%-*s", width, f.Label)))
		b.WriteString("  ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// Count returns a count with the matching noun, e.g. "3 items".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
