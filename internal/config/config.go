// Package config handles Wikilinx configuration and persisted plugin settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the terminal host configuration (config.toml).
// Plugin settings toggled at runtime live in a separate settings file.
type Config struct {
	// SettingsFile overrides where plugin settings are stored.
	// Relative paths are resolved against the config file directory.
	SettingsFile string `toml:"settings_file"`

	// Language is the client language used for translations and the
	// Eorzea Database region (e.g. "en", "ja", "de-DE", "french").
	Language string `toml:"language"`

	// Catalog is the path to the SQLite item catalog.
	Catalog string `toml:"catalog"`

	// IDTable is the path to the Eorzea Database identifier table. Without
	// one, no item has a database page.
	IDTable string `toml:"id_table"`

	// Browser is the command used to open links (defaults to the OS handler).
	Browser string `toml:"browser"`

	// Log controls structured logging.
	Log LogConfig `toml:"log"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/wikilinx/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "wikilinx", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "wikilinx", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CatalogPath returns the configured catalog path, defaulting to
// catalog.db next to the config file.
func (c *Config) CatalogPath(configPath string) string {
	if c != nil && c.Catalog != "" {
		return resolveRelative(c.Catalog, configPath)
	}
	return filepath.Join(filepath.Dir(ResolveConfigPath(configPath)), "catalog.db")
}

// IDTablePath returns the configured identifier table path resolved against
// the config directory, or "" when none is configured.
func (c *Config) IDTablePath(configPath string) string {
	if c == nil || strings.TrimSpace(c.IDTable) == "" {
		return ""
	}
	return resolveRelative(strings.TrimSpace(c.IDTable), configPath)
}

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	configPath := ResolveConfigPath(path)

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Wikilinx Configuration

# Client language: en, ja, de, fr (BCP 47 tags like "de-DE" work too).
# Selects translations and the Eorzea Database region.
# language = "en"

# SQLite item catalog (defaults to catalog.db next to this file).
# Populate it with: wikilinx catalog import items.yaml
# catalog = "catalog.db"

# Eorzea Database identifier table: line N holds the identifier for item N.
# Required for "Open Eorzea DB Page"; relative paths resolve against this
# directory.
# id_table = "lodestone_item_ids.txt"

# Command used to open links (defaults to xdg-open / open / rundll32).
# browser = "firefox"

# Plugin settings file (defaults to settings.toml next to this file).
# settings_file = "settings.toml"

# [log]
# level = "info"   # debug, info, warn, error
# format = "text"  # text, json

# [ui]
# accent = "39"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
