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

type persistedConfig struct {
	SettingsFile *string               `toml:"settings_file,omitempty"`
	Language     *string               `toml:"language,omitempty"`
	Catalog      *string               `toml:"catalog,omitempty"`
	IDTable      *string               `toml:"id_table,omitempty"`
	Browser      *string               `toml:"browser,omitempty"`
	Log          *persistedLogSettings `toml:"log,omitempty"`
	UI           *persistedUISettings  `toml:"ui,omitempty"`
}

type persistedLogSettings struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		SettingsFile: nonEmptyPtr(cfg.SettingsFile),
		Language:     nonEmptyPtr(cfg.Language),
		Catalog:      nonEmptyPtr(cfg.Catalog),
		IDTable:      nonEmptyPtr(cfg.IDTable),
		Browser:      nonEmptyPtr(cfg.Browser),
	}

	level := nonEmptyPtr(cfg.Log.Level)
	format := nonEmptyPtr(cfg.Log.Format)
	if level != nil || format != nil {
		out.Log = &persistedLogSettings{Level: level, Format: format}
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
