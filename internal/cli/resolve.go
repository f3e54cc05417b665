package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/resolver"
	"github.com/wikilinx/wikilinx/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <item-id>",
	Short: "Show an item with its wiki and Eorzea Database links",
	Long: `Resolves a raw item ID the way the context menu does: the ID is reduced
modulo 500000 (so HQ and collectable variants resolve to the base item), looked
up in the catalog and mapped to its Eorzea Database page.

Examples:
  wikilinx resolve 5111
  wikilinx resolve 1005111 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := parseItemID(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		s, err := newSession(sessionOptions{dryRun: true})
		if err != nil {
			return handleError(ErrCatalogError, err, "Check the catalog path with 'wikilinx config show'")
		}
		defer s.Close()

		res, err := s.plugin.Resolver.Resolve(raw)
		if err != nil {
			return handleDomainError(err, "Import item data with 'wikilinx catalog import <file.yaml>'")
		}

		if isJSONOutput() {
			outputSuccess(res, nil)
			return nil
		}
		return printItemCard(res)
	},
}

func itemCard(res resolver.ItemContext) ui.Card {
	card := ui.Card{
		Title: res.Name,
		Fields: []ui.Field{
			{Label: "ID", Value: strconv.FormatUint(uint64(res.ID), 10)},
			{Label: "Category", Value: res.Category},
			{Label: "Eorzea DB ID", Value: res.ExternalID},
		},
		Links: []ui.Field{{Label: "Wiki", Value: res.WikiURL}},
	}
	if res.RawID != uint64(res.ID) {
		card.Fields = append(card.Fields, ui.Field{Label: "Raw ID", Value: strconv.FormatUint(res.RawID, 10)})
	}
	if res.HasExternalID {
		card.Links = append(card.Links, ui.Field{Label: "Eorzea DB", Value: res.DatabaseURL})
	}
	return card
}

func printItemCard(res resolver.ItemContext) error {
	width := ui.NewDisplayContext(stdout).WrapWidth()
	out, err := itemCard(res).Render(width)
	if err != nil {
		// Fall back to plain fields if markdown rendering fails.
		getLogger().Debug("card rendering failed", "error", err)
		card := itemCard(res)
		fmt.Fprintln(stdout, ui.Header(res.Name))
		fmt.Fprint(stdout, ui.KeyValues(append(card.Fields, card.Links...)))
		return nil
	}
	fmt.Fprint(stdout, out)
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
