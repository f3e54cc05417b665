package config

import (
	"log/slog"
)

// Store holds the single mutable Settings instance and persists it after
// every mutation. It is not safe for concurrent use; all callers run on the
// host's UI thread.
type Store struct {
	path     string
	settings Settings
	logger   *slog.Logger
}

// OpenStore loads settings from path. Parse failures are logged and the
// store starts from defaults.
func OpenStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	settings, err := LoadSettings(path)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "path", path, "error", err)
	}

	return &Store{path: path, settings: settings, logger: logger}
}

// Path returns where the settings are persisted.
func (s *Store) Path() string {
	return s.path
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	return s.settings
}

// Update applies fn to the settings and saves them immediately.
// Save failures are logged; the in-memory change is kept either way.
func (s *Store) Update(fn func(*Settings)) error {
	fn(&s.settings)

	if err := SaveSettings(s.path, s.settings); err != nil {
		s.logger.Error("failed to save settings", "path", s.path, "error", err)
		return err
	}
	return nil
}
