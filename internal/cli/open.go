package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/resolver"
	"github.com/wikilinx/wikilinx/internal/ui"
)

var (
	openDatabase  bool
	openPrintOnly bool
)

var openCmd = &cobra.Command{
	Use:   "open <item-id>",
	Short: "Open an item's wiki or Eorzea Database page",
	Long: `Opens the wiki page for an item in your browser, or its Eorzea Database
page with --db. The database region follows the client language.

The browser is determined by (in order):
  1. The 'browser' setting in ~/.config/wikilinx/config.toml
  2. The OS handler (xdg-open, open, rundll32)

Examples:
  wikilinx open 5111
  wikilinx open 5111 --db --lang de
  wikilinx open 5111 --print`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := parseItemID(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		s, err := newSession(sessionOptions{dryRun: openPrintOnly})
		if err != nil {
			return handleError(ErrCatalogError, err, "Check the catalog path with 'wikilinx config show'")
		}
		defer s.Close()

		id := resolver.Normalize(raw)
		target := "wiki"
		var url string
		if openDatabase {
			target = "db"
			url, err = s.plugin.Engine.OpenDatabase(id)
		} else {
			url, err = s.plugin.Engine.OpenWiki(id)
		}
		if err != nil {
			return handleDomainError(err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"item_id": id,
				"target":  target,
				"url":     url,
				"opened":  !openPrintOnly,
			}, nil)
			return nil
		}

		if openPrintOnly {
			fmt.Fprintln(stdout, url)
			return nil
		}
		fmt.Fprintln(stdout, ui.Successf("Opened %s", formatURL(url, ui.Accent.Render)))
		return nil
	},
}

func init() {
	openCmd.Flags().BoolVar(&openDatabase, "db", false, "Open the Eorzea Database page instead of the wiki")
	openCmd.Flags().BoolVar(&openPrintOnly, "print", false, "Print the URL instead of opening it")
	rootCmd.AddCommand(openCmd)
}
