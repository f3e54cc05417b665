//go:build integration

package cli_test

import (
	"strings"
	"testing"

	"github.com/wikilinx/wikilinx/internal/testutil"
)

// TestIntegration_CatalogToMenu imports a catalog and walks an item from
// resolution through a context menu click.
func TestIntegration_CatalogToMenu(t *testing.T) {
	h := testutil.NewTestHome(t).
		WithSeed(testutil.SampleSeed()).
		WithSampleIDTable().
		Build()

	result := h.RunCLI("catalog", "import", "items.yaml")
	result.MustSucceed(t)
	if got := result.Data["imported"]; got != float64(4) {
		t.Fatalf("imported = %v, want 4", got)
	}

	result = h.RunCLI("resolve", "1000006")
	result.MustSucceed(t)
	if result.DataString("name") != "Rarefied Tin Ore" {
		t.Errorf("name = %q", result.DataString("name"))
	}
	if !result.DataBool("has_external_id") {
		t.Error("item 6 should have a database page")
	}

	h.RunCLI("config", "set", "lodestone_enabled", "true").MustSucceed(t)
	h.AssertFileContains("settings.toml", "lodestone_enabled = true")

	result = h.RunCLI("menu", "--inventory", "6", "--click", "db", "--print")
	result.MustSucceed(t)
	opened := result.DataList("opened")
	if len(opened) != 1 || !strings.HasSuffix(opened[0].(string), "/db/item/c1dfd96eea8") {
		t.Errorf("opened = %v", opened)
	}
}

// TestIntegration_Errors checks the stable error codes scripts rely on.
func TestIntegration_Errors(t *testing.T) {
	h := testutil.NewTestHome(t).
		WithSeed(testutil.SampleSeed()).
		WithSampleIDTable().
		Build()
	h.RunCLI("catalog", "import", "items.yaml").MustSucceed(t)

	h.RunCLI("resolve", "4551").MustFail(t, "ITEM_NOT_FOUND")
	h.RunCLI("open", "4551", "--print").MustFail(t, "ITEM_NOT_FOUND")
	h.RunCLI("open", "7", "--db", "--print").MustFail(t, "NO_MAPPING")
	h.RunCLI("lookup", "7").MustFail(t, "NO_MAPPING")
	h.RunCLI("lookup", "100000").MustFail(t, "OUT_OF_RANGE")
	h.RunCLI("config", "set", "wiki_enabled", "sometimes").MustFailWithMessage(t, "true or false")
}

// TestIntegration_NoIDTable checks a home without id_table has no database pages.
func TestIntegration_NoIDTable(t *testing.T) {
	h := testutil.NewTestHome(t).
		WithSeed(testutil.SampleSeed()).
		Build()
	h.RunCLI("catalog", "import", "items.yaml").MustSucceed(t)

	result := h.RunCLI("resolve", "6")
	result.MustSucceed(t)
	if result.DataBool("has_external_id") {
		t.Error("no item should have a database page without an identifier table")
	}
	h.RunCLI("lookup", "6").MustFail(t, "ID_TABLE_MISSING")
}

// TestIntegration_LanguageFromConfig checks config.toml language selection.
func TestIntegration_LanguageFromConfig(t *testing.T) {
	h := testutil.NewTestHome(t).
		WithConfig("language = \"ja\"\n").
		WithSeed(testutil.SampleSeed()).
		WithSampleIDTable().
		Build()
	h.RunCLI("catalog", "import", "items.yaml").MustSucceed(t)
	h.RunCLI("config", "set", "lodestone_enabled", "true").MustSucceed(t)

	result := h.RunCLI("menu", "--inventory", "2")
	result.MustSucceed(t)
	entries := result.DataList("entries")
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	first := entries[0].(map[string]interface{})
	if first["name"] == "Open Wiki Page" {
		t.Errorf("entry names should be translated, got %v", first["name"])
	}

	result = h.RunCLI("open", "2", "--db", "--print")
	result.MustSucceed(t)
	if !strings.HasPrefix(result.DataString("url"), "https://jp.finalfantasyxiv.com/") {
		t.Errorf("url = %q", result.DataString("url"))
	}
}
