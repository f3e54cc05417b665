package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/ui"
)

var lookupScanFile string

var errNoIDTable = errors.New("no identifier table configured")

var lookupCmd = &cobra.Command{
	Use:   "lookup <index>",
	Short: "Look up an Eorzea Database identifier by item index",
	Long: `Looks up line <index> (1-based) of the identifier table. Blank lines mean
the item has no database page.

By default the table configured as id_table is used. --scan reads the given
file line by line instead of loading it.

Examples:
  wikilinx lookup 2
  wikilinx lookup 5111 --scan ./lodestone_item_ids.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		externalID, err := lookupExternalID(index)
		if errors.Is(err, errNoIDTable) {
			return handleError(ErrNoIDTable, err, "Set one with 'wikilinx config set id_table <path>' or pass --scan <file>")
		}
		if err != nil {
			return handleDomainError(err, "")
		}

		url := i18n.DatabaseBaseURL(resolvedLanguage) + externalID
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"index":       index,
				"external_id": externalID,
				"url":         url,
			}, nil)
			return nil
		}

		fmt.Fprint(stdout, ui.KeyValues([]ui.Field{
			{Label: "index", Value: fmt.Sprint(index)},
			{Label: "id", Value: ui.AccentBold.Render(externalID)},
			{Label: "url", Value: formatURL(url, ui.Accent.Render)},
		}))
		return nil
	},
}

func lookupExternalID(index uint32) (string, error) {
	if lookupScanFile != "" {
		f, err := os.Open(lookupScanFile)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return idtable.ScanLookup(f, index)
	}

	table, err := loadIDTable()
	if err != nil {
		return "", err
	}
	if table == nil {
		return "", errNoIDTable
	}
	return table.Lookup(index)
}

func init() {
	lookupCmd.Flags().StringVar(&lookupScanFile, "scan", "", "Stream the lookup from this table file")
	rootCmd.AddCommand(lookupCmd)
}
