package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testSeed = `items:
  - id: 2
    name: Fire Shard
    category: Crystal
  - id: 6
    name: Rarefied Tin Ore
    category: Stone
    item_level: 50
  - id: 7
    name: Lightning Shard
    category: Crystal
`

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// decode parses stdout as a JSON envelope.
func (r cliRun) decode(t *testing.T) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal([]byte(r.stdout), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, r.stdout)
	}
	return resp
}

// data re-decodes the envelope data into v.
func (r cliRun) data(t *testing.T, v interface{}) Response {
	t.Helper()
	var resp struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, r.stdout)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", r.stdout)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decode data: %v; out=%s", err, r.stdout)
	}
	return resp.Response
}

type testEnv struct {
	dir     string
	config  string
	started [][]string
}

// sampleIDTable is a synthetic identifier table: item 2 and 6 have
// identifiers, items 1 and 7 are blank and the table ends at item 60.
const sampleIDTable = "../idtable/testdata/sample_ids.txt"

// newTestEnv creates a config directory with an imported catalog and the
// sample identifier table. Browser launches are recorded instead of executed.
func newTestEnv(t *testing.T, configTOML string) *testEnv {
	t.Helper()
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLanguage, "")
	t.Setenv("LANG", "")

	table, err := filepath.Abs(sampleIDTable)
	if err != nil {
		t.Fatal(err)
	}
	configTOML = fmt.Sprintf("id_table = %q\n", filepath.ToSlash(table)) + configTOML

	env := &testEnv{dir: t.TempDir()}
	env.config = filepath.Join(env.dir, "config.toml")
	if err := os.WriteFile(env.config, []byte(configTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	seed := filepath.Join(env.dir, "items.yaml")
	if err := os.WriteFile(seed, []byte(testSeed), 0o644); err != nil {
		t.Fatal(err)
	}

	prevStart := startCommand
	t.Cleanup(func() { startCommand = prevStart })
	startCommand = func(name string, args ...string) error {
		env.started = append(env.started, append([]string{name}, args...))
		return nil
	}

	if r := env.run(t, "catalog", "import", seed); r.err != nil {
		t.Fatalf("catalog import: %v\n%s", r.err, r.stderr)
	}
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) cliRun {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.config, "--log-level", "error"}, args...)...)
}

func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })

	rootCmd.SetArgs(args)
	err := Execute()
	return cliRun{stdout: out.String(), stderr: errOut.String(), err: err}
}

// resetFlags restores every flag to its default between in-process runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestResolveJSON(t *testing.T) {
	env := newTestEnv(t, "")

	var item struct {
		RawID         uint64 `json:"raw_id"`
		ID            uint32 `json:"id"`
		Name          string `json:"name"`
		WikiURL       string `json:"wiki_url"`
		ExternalID    string `json:"external_id"`
		HasExternalID bool   `json:"has_external_id"`
		DatabaseURL   string `json:"database_url"`
	}
	env.run(t, "--json", "resolve", "1000006").data(t, &item)

	if item.RawID != 1000006 || item.ID != 6 || item.Name != "Rarefied Tin Ore" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.WikiURL != "https://ffxiv.consolegameswiki.com/wiki/Rarefied Tin Ore" {
		t.Errorf("WikiURL = %q", item.WikiURL)
	}
	if !item.HasExternalID || item.ExternalID != "c1dfd96eea8" {
		t.Errorf("external ID = %q (%v)", item.ExternalID, item.HasExternalID)
	}
	if item.DatabaseURL != "https://na.finalfantasyxiv.com/lodestone/playguide/db/item/c1dfd96eea8" {
		t.Errorf("DatabaseURL = %q", item.DatabaseURL)
	}
}

func TestResolveErrors(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		arg  string
		code string
	}{
		{name: "unknown item", arg: "4551", code: ErrItemNotFound},
		{name: "zero", arg: "0", code: ErrItemNotFound},
		{name: "not a number", arg: "fire", code: ErrInvalidInput},
		{name: "negative", arg: "-2", code: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.run(t, "--json", "resolve", "--", tt.arg).decode(t)
			if resp.OK || resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("expected %s, got %+v", tt.code, resp.Error)
			}
		})
	}
}

func TestResolveCard(t *testing.T) {
	env := newTestEnv(t, "")

	r := env.run(t, "resolve", "2")
	if r.err != nil {
		t.Fatalf("resolve: %v", r.err)
	}
	for _, want := range []string{"Fire Shard", "Crystal", "da4b9237bac"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("card missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestOpenLaunchesConfiguredBrowser(t *testing.T) {
	env := newTestEnv(t, "browser = \"mybrowser\"\n")

	if r := env.run(t, "open", "6"); r.err != nil {
		t.Fatalf("open: %v", r.err)
	}
	if len(env.started) != 1 {
		t.Fatalf("expected one launch, got %v", env.started)
	}
	got := env.started[0]
	if got[0] != "mybrowser" || got[1] != "https://ffxiv.consolegameswiki.com/wiki/Rarefied Tin Ore" {
		t.Errorf("launched %v", got)
	}
}

func TestOpenDatabase(t *testing.T) {
	env := newTestEnv(t, "")

	var data struct {
		URL    string `json:"url"`
		Target string `json:"target"`
		Opened bool   `json:"opened"`
	}
	env.run(t, "--json", "--lang", "fr", "open", "2", "--db", "--print").data(t, &data)
	if data.URL != "https://fr.finalfantasyxiv.com/lodestone/playguide/db/item/da4b9237bac" {
		t.Errorf("URL = %q", data.URL)
	}
	if data.Target != "db" || data.Opened {
		t.Errorf("unexpected result %+v", data)
	}
	if len(env.started) != 0 {
		t.Errorf("--print must not launch a browser, got %v", env.started)
	}

	resp := env.run(t, "--json", "open", "7", "--db", "--print").decode(t)
	if resp.OK || resp.Error.Code != ErrNoMapping {
		t.Errorf("blank table line should report %s, got %+v", ErrNoMapping, resp.Error)
	}
}

func TestOpenRespectsWhitespaceSettings(t *testing.T) {
	env := newTestEnv(t, "")

	env.run(t, "config", "set", "replace_whitespace", "true")
	env.run(t, "config", "set", "whitespace_replacement", "_")

	r := env.run(t, "open", "6", "--print")
	if strings.TrimSpace(r.stdout) != "https://ffxiv.consolegameswiki.com/wiki/Rarefied_Tin_Ore" {
		t.Errorf("open --print = %q", r.stdout)
	}
}

func TestMenuInventoryClick(t *testing.T) {
	env := newTestEnv(t, "")
	env.run(t, "config", "set", "lodestone_enabled", "true")

	var result menuResult
	env.run(t, "--json", "menu", "--inventory", "1000002", "--click", "db", "--print").data(t, &result)

	if result.ItemID != 2 || len(result.Entries) != 2 {
		t.Fatalf("unexpected menu %+v", result)
	}
	if result.Entries[0].Kind != "wiki" || result.Entries[0].Name != "Open Wiki Page" {
		t.Errorf("first entry = %+v", result.Entries[0])
	}
	want := "https://na.finalfantasyxiv.com/lodestone/playguide/db/item/da4b9237bac"
	if len(result.Opened) != 1 || result.Opened[0] != want {
		t.Errorf("opened %v, want %s", result.Opened, want)
	}
}

func TestMenuPanelExtraction(t *testing.T) {
	env := newTestEnv(t, "")

	var result menuResult
	env.run(t, "--json", "menu", "--addon", "RecipeNote", "--item", "6").data(t, &result)
	if result.ItemID != 6 || len(result.Entries) != 1 {
		t.Errorf("RecipeNote menu = %+v", result)
	}

	result = menuResult{}
	env.run(t, "--json", "menu", "--addon", "ContentsInfo", "--hover", "1000002").data(t, &result)
	if result.ItemID != 2 || len(result.Entries) != 1 {
		t.Errorf("unknown panel should fall back to the hovered item, got %+v", result)
	}

	result = menuResult{}
	env.run(t, "--json", "menu", "--inventory", "0").data(t, &result)
	if len(result.Entries) != 0 {
		t.Errorf("empty slot should get no entries, got %+v", result)
	}
}

func TestMenuClickFailureNotifies(t *testing.T) {
	env := newTestEnv(t, "")
	env.run(t, "config", "set", "lodestone_enabled", "true")

	r := env.run(t, "--json", "menu", "--inventory", "7", "--click", "db", "--print")
	resp := r.decode(t)
	if !resp.OK {
		t.Fatalf("click failures are reported as notifications, got %+v", resp.Error)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnNotification {
		t.Fatalf("warnings = %+v", resp.Warnings)
	}
	if resp.Warnings[0].Message != "Unable to find Eorzea DB page for item: Lightning Shard" {
		t.Errorf("notification = %q", resp.Warnings[0].Message)
	}
}

func TestMenuInvalidFlags(t *testing.T) {
	env := newTestEnv(t, "")

	for _, args := range [][]string{
		{"menu"},
		{"menu", "--addon", "ChatLog", "--inventory", "2"},
		{"menu", "--inventory", "2", "--click", "both"},
	} {
		resp := env.run(t, append([]string{"--json"}, args...)...).decode(t)
		if resp.OK || resp.Error.Code != ErrInvalidInput {
			t.Errorf("%v: expected %s, got %+v", args, ErrInvalidInput, resp.Error)
		}
	}

	resp := env.run(t, "--json", "menu", "--inventory", "2", "--click", "db").decode(t)
	if resp.OK || !strings.Contains(resp.Error.Message, "no db entry") {
		t.Errorf("disabled entry should not be clickable, got %+v", resp.Error)
	}
}

func TestConfigSet(t *testing.T) {
	env := newTestEnv(t, "")
	settingsPath := filepath.Join(env.dir, "settings.toml")

	if r := env.run(t, "config", "set", "wiki_url", "https://wiki.example/"); r.err != nil {
		t.Fatalf("config set: %v", r.err)
	}
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings not written: %v", err)
	}
	if !strings.Contains(string(data), `wiki_url = "https://wiki.example/"`) {
		t.Errorf("settings.toml = %s", data)
	}

	resp := env.run(t, "--json", "config", "set", "wiki_enabled", "maybe").decode(t)
	if resp.OK || resp.Error.Code != ErrInvalidInput {
		t.Errorf("invalid bool: %+v", resp.Error)
	}
	resp = env.run(t, "--json", "config", "set", "colour", "red").decode(t)
	if resp.OK || resp.Error.Code != ErrInvalidInput {
		t.Errorf("unknown key: %+v", resp.Error)
	}

	if r := env.run(t, "config", "set", "language", "de"); r.err != nil {
		t.Fatalf("config set language: %v", r.err)
	}
	cfgData, _ := os.ReadFile(env.config)
	if !strings.Contains(string(cfgData), `language = "de"`) {
		t.Errorf("config.toml = %s", cfgData)
	}

	r := env.run(t, "open", "2", "--db", "--print")
	if !strings.HasPrefix(r.stdout, "https://de.finalfantasyxiv.com/") {
		t.Errorf("configured language not applied: %q", r.stdout)
	}
}

func TestConfigShowAndToggle(t *testing.T) {
	env := newTestEnv(t, "")

	var shown struct {
		SettingsPath string `json:"settings_path"`
		Region       string `json:"region"`
		Settings     struct {
			WikiEnabled      bool `json:"wiki_enabled"`
			LodestoneEnabled bool `json:"lodestone_enabled"`
		} `json:"settings"`
	}
	env.run(t, "--json", "config", "show").data(t, &shown)
	if shown.SettingsPath != filepath.Join(env.dir, "settings.toml") {
		t.Errorf("settings path = %q", shown.SettingsPath)
	}
	if shown.Region != "na" || !shown.Settings.WikiEnabled || shown.Settings.LodestoneEnabled {
		t.Errorf("unexpected defaults %+v", shown)
	}

	r := env.run(t, "--no-links", "config", "toggle")
	for _, want := range []string{"Wikilinx Configs", "(wiki_url)", "https://ffxiv.consolegameswiki.com/wiki/"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("settings window missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestLookup(t *testing.T) {
	env := newTestEnv(t, "")

	var data struct {
		ExternalID string `json:"external_id"`
	}
	env.run(t, "--json", "lookup", "2").data(t, &data)
	if data.ExternalID != "da4b9237bac" {
		t.Errorf("lookup 2 = %q", data.ExternalID)
	}

	table := filepath.Join(env.dir, "ids.txt")
	if err := os.WriteFile(table, []byte("\n\n12345\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env.run(t, "--json", "lookup", "3", "--scan", table).data(t, &data)
	if data.ExternalID != "12345" {
		t.Errorf("scan lookup 3 = %q", data.ExternalID)
	}

	tests := []struct {
		args []string
		code string
	}{
		{[]string{"lookup", "1"}, ErrNoMapping},
		{[]string{"lookup", "0"}, ErrOutOfRange},
		{[]string{"lookup", "400000"}, ErrOutOfRange},
		{[]string{"lookup", "4", "--scan", table}, ErrOutOfRange},
	}
	for _, tt := range tests {
		resp := env.run(t, append([]string{"--json"}, tt.args...)...).decode(t)
		if resp.OK || resp.Error.Code != tt.code {
			t.Errorf("%v: expected %s, got %+v", tt.args, tt.code, resp.Error)
		}
	}
}

func TestIDTableConfiguration(t *testing.T) {
	env := newTestEnv(t, "")

	if err := os.WriteFile(env.config, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	resp := env.run(t, "--json", "lookup", "2").decode(t)
	if resp.OK || resp.Error.Code != ErrNoIDTable {
		t.Errorf("lookup without id_table: expected %s, got %+v", ErrNoIDTable, resp.Error)
	}
	resp = env.run(t, "--json", "open", "2", "--db", "--print").decode(t)
	if resp.OK || resp.Error.Code != ErrOutOfRange {
		t.Errorf("open --db without id_table: expected %s, got %+v", ErrOutOfRange, resp.Error)
	}

	if err := os.WriteFile(filepath.Join(env.dir, "ids.txt"), []byte("\n\n12345\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.config, []byte("id_table = \"ids.txt\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var data struct {
		ExternalID string `json:"external_id"`
	}
	env.run(t, "--json", "lookup", "3").data(t, &data)
	if data.ExternalID != "12345" {
		t.Errorf("id_table should resolve next to config.toml, lookup 3 = %q", data.ExternalID)
	}
}

func TestCatalogShowAndSearch(t *testing.T) {
	env := newTestEnv(t, "")

	var items []struct {
		ID   uint32 `json:"id"`
		Name string `json:"name"`
	}
	resp := env.run(t, "--json", "catalog", "show", "6", "2", "99").data(t, &items)
	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 6 {
		t.Errorf("catalog show = %+v", items)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != ErrItemNotFound {
		t.Errorf("missing item should warn, got %+v", resp.Warnings)
	}

	env.run(t, "--json", "catalog", "search", "shard").data(t, &items)
	if len(items) != 2 {
		t.Errorf("search shard = %+v", items)
	}

	r := env.run(t, "catalog", "search", "mythril")
	if !strings.Contains(r.stdout, `No items match "mythril"`) {
		t.Errorf("empty search output = %q", r.stdout)
	}
}

func TestInvalidConfigReportsJSON(t *testing.T) {
	t.Setenv(EnvConfig, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("language = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "--config", path, "--json", "version")
	if r.err == nil {
		t.Fatal("expected an error exit")
	}
	resp := r.decode(t)
	if resp.OK || resp.Error.Code != ErrConfigInvalid {
		t.Errorf("expected %s, got %+v", ErrConfigInvalid, resp.Error)
	}
	if r.stderr != "" {
		t.Errorf("a reported error should not be printed again: %q", r.stderr)
	}
}

func TestVersionJSON(t *testing.T) {
	t.Setenv(EnvConfig, "")
	r := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "--json", "version")

	var info struct {
		Version    string `json:"version"`
		ModulePath string `json:"module_path"`
	}
	r.data(t, &info)
	if info.Version == "" || info.ModulePath == "" {
		t.Errorf("unexpected version info %+v", info)
	}
}
