package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveSettingsPath(t *testing.T) {
	configPath := "/tmp/wikilinx/config.toml"

	t.Run("explicit settings path wins", func(t *testing.T) {
		got := ResolveSettingsPath("/tmp/custom/settings.toml", configPath, &Config{
			SettingsFile: "from-config.toml",
		})
		if got != "/tmp/custom/settings.toml" {
			t.Fatalf("expected explicit settings path, got %q", got)
		}
	})

	t.Run("config settings_file absolute", func(t *testing.T) {
		got := ResolveSettingsPath("", configPath, &Config{
			SettingsFile: "/var/tmp/wikilinx-settings.toml",
		})
		if got != "/var/tmp/wikilinx-settings.toml" {
			t.Fatalf("expected absolute settings path, got %q", got)
		}
	})

	t.Run("config settings_file relative to config dir", func(t *testing.T) {
		got := ResolveSettingsPath("", configPath, &Config{
			SettingsFile: "plugin/settings.toml",
		})
		want := filepath.Join("/tmp/wikilinx", "plugin", "settings.toml")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback sibling settings.toml", func(t *testing.T) {
		got := ResolveSettingsPath("", configPath, nil)
		want := filepath.Join("/tmp/wikilinx", "settings.toml")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadSettingsMissingReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if !s.WikiEnabled || s.LodestoneEnabled {
		t.Errorf("unexpected default flags: %+v", s)
	}
	if s.WikiURL != DefaultWikiURL {
		t.Errorf("WikiURL = %q, want %q", s.WikiURL, DefaultWikiURL)
	}
}

func TestLoadSettingsCorruptFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("wiki_enabled = maybe\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if s != Defaults() {
		t.Fatalf("expected defaults on parse failure, got %+v", s)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	want := Settings{
		Version:               SettingsVersion,
		WikiEnabled:           false,
		WikiURL:               "https://wiki.example/",
		ReplaceWhitespace:     true,
		WhitespaceReplacement: "_",
		LodestoneEnabled:      true,
	}

	if err := SaveSettings(path, want); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("version = 2\nlodestone_enabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.LodestoneEnabled {
		t.Error("expected lodestone_enabled from file")
	}
	if !s.WikiEnabled || s.WikiURL != DefaultWikiURL {
		t.Errorf("missing keys should keep defaults, got %+v", s)
	}
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "unversioned becomes current",
			in:   Settings{WikiURL: "x"},
			want: Settings{Version: SettingsVersion, WikiURL: "x"},
		},
		{
			name: "v1 inert whitespace flag without replacement is cleared",
			in:   Settings{Version: 1, ReplaceWhitespace: true},
			want: Settings{Version: 2},
		},
		{
			name: "v1 whitespace flag with replacement is kept",
			in:   Settings{Version: 1, ReplaceWhitespace: true, WhitespaceReplacement: "_"},
			want: Settings{Version: 2, ReplaceWhitespace: true, WhitespaceReplacement: "_"},
		},
		{
			name: "current untouched",
			in:   Settings{Version: 2, ReplaceWhitespace: true},
			want: Settings{Version: 2, ReplaceWhitespace: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Migrate(tt.in); got != tt.want {
				t.Errorf("Migrate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadSettingsMigratesVersion1(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		replace bool
	}{
		{"empty replacement clears the flag", "version = 1\nreplace_whitespace = true\nwhitespace_replacement = \"\"\n", false},
		{"replacement keeps the flag", "version = 1\nreplace_whitespace = true\nwhitespace_replacement = \"_\"\n", true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("settings-%d.toml", i))
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			s, err := LoadSettings(path)
			if err != nil {
				t.Fatalf("LoadSettings: %v", err)
			}
			if s.Version != SettingsVersion || s.ReplaceWhitespace != tt.replace {
				t.Errorf("loaded %+v, want version %d replace_whitespace=%v", s, SettingsVersion, tt.replace)
			}
		})
	}
}

func TestStoreUpdatePersistsEveryMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := OpenStore(path, logger)
	if store.Settings() != Defaults() {
		t.Fatalf("new store should start from defaults, got %+v", store.Settings())
	}

	if err := store.Update(func(s *Settings) { s.LodestoneEnabled = true }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reloaded, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.LodestoneEnabled {
		t.Fatal("first mutation was not persisted")
	}

	if err := store.Update(func(s *Settings) { s.WikiURL = "not a url" }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reloaded, err = LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.WikiURL != "not a url" {
		t.Fatalf("WikiURL = %q, any string should be accepted", reloaded.WikiURL)
	}

	if OpenStore(path, logger).Settings() != store.Settings() {
		t.Error("reopened store does not match")
	}
}

func TestStoreUpdateSaveFailureKeepsChange(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := OpenStore(filepath.Join(blocker, "settings.toml"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := store.Update(func(s *Settings) { s.WikiEnabled = false }); err == nil {
		t.Fatal("expected save error when parent is a file")
	}
	if store.Settings().WikiEnabled {
		t.Error("in-memory change should be kept after failed save")
	}
}
