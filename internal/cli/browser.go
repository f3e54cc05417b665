package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	errOpen    = errors.New("failed to open link")
	errCatalog = errors.New("catalog unavailable")
)

// startCommand launches a command without waiting for it. Tests replace it.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// browserOpener hands URLs to the configured browser or the OS handler.
type browserOpener struct {
	command string
	dryRun  bool

	// opened lists every URL handed off, in order.
	opened []string
}

func newBrowserOpener(command string, dryRun bool) *browserOpener {
	return &browserOpener{command: strings.TrimSpace(command), dryRun: dryRun}
}

// OpenLink implements menu.LinkOpener.
func (b *browserOpener) OpenLink(url string) error {
	b.opened = append(b.opened, url)
	if b.dryRun {
		return nil
	}

	name, args := browserCommand(b.command, runtime.GOOS, url)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", errOpen, name, err)
	}
	return nil
}

// browserCommand returns the command line that opens url. A configured
// command containing spaces runs through the shell.
func browserCommand(command, goos, url string) (string, []string) {
	switch {
	case command != "" && strings.Contains(command, " "):
		return "sh", []string{"-c", command + " " + shellQuote(url)}
	case command != "":
		return command, []string{url}
	case goos == "darwin":
		return "open", []string{url}
	case goos == "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
