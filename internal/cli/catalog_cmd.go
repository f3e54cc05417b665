package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/resolver"
	"github.com/wikilinx/wikilinx/internal/ui"
)

var catalogSearchLimit int

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local item catalog",
	Long: `The item catalog is a SQLite database of item names and categories,
populated from YAML seed files:

  items:
    - id: 5111
      name: Rarefied Tin Ore
      category: Stone
      item_level: 50`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import items from a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := catalog.LoadSeed(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		db, err := openCatalog()
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		defer db.Close()

		if err := db.Upsert(items); err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		total, err := db.Count()
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		getLogger().Info("imported items", "file", args[0], "count", len(items), "total", total)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"imported": len(items),
				"total":    total,
				"catalog":  catalogPath(),
			}, nil)
			return nil
		}
		fmt.Fprintln(stdout, ui.Successf("Imported %s into %s %s",
			ui.Count(len(items), "item", "items"),
			ui.Accent.Render(catalogPath()),
			ui.Hint(fmt.Sprintf("(%s total)", ui.Count(total, "item", "items")))))
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <item-id>...",
	Short: "Show catalog entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uint32, 0, len(args))
		for _, arg := range args {
			raw, err := parseItemID(arg)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			ids = append(ids, resolver.Normalize(raw))
		}

		db, err := openCatalog()
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		defer db.Close()

		if len(ids) == 1 {
			item, err := db.Item(ids[0])
			if err != nil {
				return handleDomainError(err, "")
			}
			if isJSONOutput() {
				outputSuccess(item, nil)
				return nil
			}
			printCatalogItems([]catalog.Item{item})
			return nil
		}

		items, err := db.Items(ids)
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		found := make(map[uint32]bool, len(items))
		for _, it := range items {
			found[it.ID] = true
		}
		var warnings []Warning
		for _, id := range ids {
			if !found[id] {
				warnings = append(warnings, Warning{Code: ErrItemNotFound, Message: fmt.Sprintf("item %d not in catalog", id)})
			}
		}

		if isJSONOutput() {
			if items == nil {
				items = []catalog.Item{}
			}
			outputSuccessWithWarnings(items, warnings, &Meta{Count: len(items)})
			return nil
		}
		printCatalogItems(items)
		for _, w := range warnings {
			fmt.Fprintln(stderr, ui.Warning(w.Message))
		}
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search catalog items by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		defer db.Close()

		items, err := db.Search(args[0], catalogSearchLimit)
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}

		if isJSONOutput() {
			if items == nil {
				items = []catalog.Item{}
			}
			outputSuccess(items, &Meta{Count: len(items)})
			return nil
		}
		if len(items) == 0 {
			fmt.Fprintln(stdout, ui.Info(fmt.Sprintf("No items match %q", args[0])))
			return nil
		}
		printCatalogItems(items)
		return nil
	},
}

func printCatalogItems(items []catalog.Item) {
	for _, it := range items {
		line := fmt.Sprintf("%s  %s", ui.Muted.Render(fmt.Sprintf("%6d", it.ID)), ui.AccentBold.Render(it.Name))
		if it.Category != "" {
			line += "  " + ui.Hint(it.Category)
		}
		if it.ItemLevel > 0 {
			line += ui.Hint(fmt.Sprintf(" i%d", it.ItemLevel))
		}
		fmt.Fprintln(stdout, line)
	}
}

func init() {
	catalogSearchCmd.Flags().IntVar(&catalogSearchLimit, "limit", 20, "Maximum results (0 for no limit)")
	catalogCmd.AddCommand(catalogImportCmd, catalogShowCmd, catalogSearchCmd)
	rootCmd.AddCommand(catalogCmd)
}
