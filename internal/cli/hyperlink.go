package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// hyperlinkEnabled caches whether we should emit hyperlinks.
// Hyperlinks are only emitted to TTY terminals, not JSON output or pipes.
var hyperlinkEnabled *bool

// hyperlinksDisabled forces hyperlinks off for the current run (--no-links).
var hyperlinksDisabled bool

func setHyperlinksDisabled(disabled bool) {
	hyperlinksDisabled = disabled
	// Reset cached decision so changes take effect immediately.
	hyperlinkEnabled = nil
}

// shouldEmitHyperlinks returns true if we should emit OSC 8 hyperlinks.
func shouldEmitHyperlinks() bool {
	if hyperlinkEnabled != nil {
		return *hyperlinkEnabled
	}

	f, isFile := stdout.(*os.File)
	enabled := !jsonOutput && !hyperlinksDisabled && isFile &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	hyperlinkEnabled = &enabled
	return enabled
}

// osc8 wraps text in an OSC 8 hyperlink to url.
func osc8(url, text string) string {
	return fmt.Sprintf("\x1b]8;;%s\x07%s\x1b]8;;\x07", url, text)
}

// formatURL renders url in the accent style, clickable when the terminal
// supports it.
func formatURL(url string, render func(...string) string) string {
	if render == nil {
		render = func(strs ...string) string {
			if len(strs) == 0 {
				return ""
			}
			return strs[0]
		}
	}
	if url == "" || !shouldEmitHyperlinks() {
		return render(url)
	}
	return render(osc8(url, url))
}
