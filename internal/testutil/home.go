// Package testutil provides reusable test utilities for Wikilinx integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestHome is a temporary config directory holding config.toml, the plugin
// settings file and any seed or table files a test needs.
type TestHome struct {
	Path string
	t    *testing.T

	config  string
	idTable bool
	files   map[string]string
}

// NewTestHome creates a new test home builder.
// Call Build() to create the actual directory.
func NewTestHome(t *testing.T) *TestHome {
	t.Helper()
	return &TestHome{
		t:     t,
		files: make(map[string]string),
	}
}

// WithConfig sets the config.toml content.
func (h *TestHome) WithConfig(toml string) *TestHome {
	h.config = toml
	return h
}

// WithSettings sets the plugin settings.toml content.
func (h *TestHome) WithSettings(toml string) *TestHome {
	return h.WithFile("settings.toml", toml)
}

// WithSeed adds an item seed file named items.yaml.
func (h *TestHome) WithSeed(yaml string) *TestHome {
	return h.WithFile("items.yaml", yaml)
}

// WithSampleIDTable copies the synthetic identifier table fixture to ids.txt
// and points config.toml at it. Items 2, 5 and 6 have identifiers; 1 and 7
// are blank; the table ends at item 60.
func (h *TestHome) WithSampleIDTable() *TestHome {
	h.idTable = true
	return h
}

// WithFile adds a file relative to the home directory.
func (h *TestHome) WithFile(path, content string) *TestHome {
	h.files[path] = content
	return h
}

// Build creates the directory and all configured files.
func (h *TestHome) Build() *TestHome {
	h.t.Helper()

	h.Path = h.t.TempDir()
	config := h.config
	if h.idTable {
		h.writeFile("ids.txt", sampleIDTable(h.t))
		config = "id_table = \"ids.txt\"\n" + config
	}
	h.writeFile("config.toml", config)
	for path, content := range h.files {
		h.writeFile(path, content)
	}
	return h
}

// ConfigPath returns the path of config.toml.
func (h *TestHome) ConfigPath() string {
	return filepath.Join(h.Path, "config.toml")
}

// File returns the absolute path of a file in the home directory.
func (h *TestHome) File(relPath string) string {
	return filepath.Join(h.Path, filepath.FromSlash(relPath))
}

// ReadFile returns the content of a file, failing the test if it is missing.
func (h *TestHome) ReadFile(relPath string) string {
	h.t.Helper()
	data, err := os.ReadFile(h.File(relPath))
	if err != nil {
		h.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}

// AssertFileContains fails the test if the file does not contain substr.
func (h *TestHome) AssertFileContains(relPath, substr string) {
	h.t.Helper()
	content := h.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		h.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (h *TestHome) AssertFileNotExists(relPath string) {
	h.t.Helper()
	if _, err := os.Stat(h.File(relPath)); err == nil {
		h.t.Errorf("expected file to not exist: %s", relPath)
	}
}

func (h *TestHome) writeFile(relPath, content string) {
	h.t.Helper()
	full := h.File(relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		h.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		h.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// SampleSeed is a small catalog covering shard, gathering and crafted items.
func SampleSeed() string {
	return `items:
  - id: 2
    name: Fire Shard
    category: Crystal
  - id: 5
    name: Wind Shard
    category: Crystal
  - id: 6
    name: Rarefied Tin Ore
    category: Stone
    item_level: 50
  - id: 13
    name: Weathered Shortsword
    category: Gladiator's Arm
    item_level: 1
`
}

func sampleIDTable(t *testing.T) string {
	t.Helper()
	root, err := findProjectRoot()
	if err != nil {
		t.Fatalf("failed to find project root: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "internal", "idtable", "testdata", "sample_ids.txt"))
	if err != nil {
		t.Fatalf("failed to read identifier table fixture: %v", err)
	}
	return string(data)
}
