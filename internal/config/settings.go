package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wikilinx/wikilinx/internal/atomicfile"
)

const (
	// SettingsVersion is the current settings file schema version.
	SettingsVersion = 2

	// DefaultWikiURL is the wiki root item names are appended to.
	DefaultWikiURL = "https://ffxiv.consolegameswiki.com/wiki/"
)

// Settings are the user-toggleable plugin options. They are persisted on
// every mutation.
type Settings struct {
	Version               int    `toml:"version" json:"version"`
	WikiEnabled           bool   `toml:"wiki_enabled" json:"wiki_enabled"`
	WikiURL               string `toml:"wiki_url" json:"wiki_url"`
	ReplaceWhitespace     bool   `toml:"replace_whitespace" json:"replace_whitespace"`
	WhitespaceReplacement string `toml:"whitespace_replacement" json:"whitespace_replacement"`
	LodestoneEnabled      bool   `toml:"lodestone_enabled" json:"lodestone_enabled"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		Version:     SettingsVersion,
		WikiEnabled: true,
		WikiURL:     DefaultWikiURL,
	}
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// ResolveSettingsPath resolves the settings.toml path with precedence:
//  1. explicitSettingsPath flag
//  2. cfg.SettingsFile from config.toml (relative to config file dir when not absolute)
//  3. sibling settings.toml next to config.toml
func ResolveSettingsPath(explicitSettingsPath, configPath string, cfg *Config) string {
	if strings.TrimSpace(explicitSettingsPath) != "" {
		return explicitSettingsPath
	}

	if cfg != nil {
		if fromConfig := strings.TrimSpace(cfg.SettingsFile); fromConfig != "" {
			return resolveRelative(fromConfig, configPath)
		}
	}

	return filepath.Join(filepath.Dir(ResolveConfigPath(configPath)), "settings.toml")
}

func resolveRelative(p, configPath string) string {
	if isAbsolutePath(p) {
		return filepath.Clean(filepath.FromSlash(p))
	}
	configDir := filepath.Dir(ResolveConfigPath(configPath))
	return filepath.Join(configDir, filepath.FromSlash(p))
}

func isAbsolutePath(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	// Treat slash-rooted config values as absolute on every OS.
	return strings.HasPrefix(filepath.ToSlash(strings.TrimSpace(p)), "/")
}

// settingsFile mirrors Settings with optional fields so keys missing from
// an older file keep their defaults instead of decoding to zero values.
type settingsFile struct {
	Version               int     `toml:"version"`
	WikiEnabled           *bool   `toml:"wiki_enabled"`
	WikiURL               *string `toml:"wiki_url"`
	ReplaceWhitespace     *bool   `toml:"replace_whitespace"`
	WhitespaceReplacement *string `toml:"whitespace_replacement"`
	LodestoneEnabled      *bool   `toml:"lodestone_enabled"`
}

// LoadSettings loads settings from path.
//
// A missing file yields Defaults() and no error. A file that cannot be parsed
// also yields Defaults(), together with the parse error so the caller can log
// it; callers are expected to continue with the returned settings.
func LoadSettings(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), fmt.Errorf("settings path is required")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}

	var raw settingsFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	return raw.apply(Defaults()), nil
}

func (f settingsFile) apply(s Settings) Settings {
	if f.WikiEnabled != nil {
		s.WikiEnabled = *f.WikiEnabled
	}
	if f.WikiURL != nil {
		s.WikiURL = *f.WikiURL
	}
	if f.ReplaceWhitespace != nil {
		s.ReplaceWhitespace = *f.ReplaceWhitespace
	}
	if f.WhitespaceReplacement != nil {
		s.WhitespaceReplacement = *f.WhitespaceReplacement
	}
	if f.LodestoneEnabled != nil {
		s.LodestoneEnabled = *f.LodestoneEnabled
	}
	s.Version = f.Version
	return Migrate(s)
}

// Migrate upgrades settings saved by an older version.
//
// Version 1 stored the whitespace options without using them; version 2
// applies them when formatting wiki URLs. Files without a version are
// treated as current.
func Migrate(s Settings) Settings {
	switch {
	case s.Version <= 0:
		s.Version = SettingsVersion
	case s.Version == 1:
		if s.WhitespaceReplacement == "" {
			s.ReplaceWhitespace = false
		}
		s.Version = 2
	}
	return s
}

// SaveSettings writes settings.toml atomically.
func SaveSettings(path string, s Settings) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("settings path is required")
	}
	if s.Version == 0 {
		s.Version = SettingsVersion
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}

	return nil
}
