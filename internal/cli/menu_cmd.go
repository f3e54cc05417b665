package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/agent"
	"github.com/wikilinx/wikilinx/internal/menu"
	"github.com/wikilinx/wikilinx/internal/ui"
)

var (
	menuAddon     string
	menuItem      string
	menuInventory string
	menuHover     string
	menuClick     string
	menuPrintOnly bool
)

// menuEntry is one entry of a simulated menu.
type menuEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type menuResult struct {
	Type    string      `json:"type"`
	Addon   string      `json:"addon"`
	ItemID  uint32      `json:"item_id,omitempty"`
	Entries []menuEntry `json:"entries"`
	Clicked string      `json:"clicked,omitempty"`
	Opened  []string    `json:"opened,omitempty"`
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Simulate an item context menu",
	Long: `Opens a context menu the way the game client would and prints the entries
Wikilinx adds. --click then selects an entry.

A menu is either an inventory menu (--inventory <item-id>) or a panel menu
(--addon <name>). For panel menus, --item places the item where that panel's
extraction strategy reads it and --hover sets the hovered item used as a
fallback.

Supported panels: ` + strings.Join(agent.NewRegistry(nil).Supported(), ", ") + `

Examples:
  wikilinx menu --inventory 5111
  wikilinx menu --addon RecipeNote --item 5111 --click wiki
  wikilinx menu --addon ContentsInfo --hover 1005111 --click db --print`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opened, err := menuArgs()
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if menuClick != "" && menuClick != "wiki" && menuClick != "db" {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("invalid --click %q", menuClick), "Use --click wiki or --click db")
		}

		s, err := newSession(sessionOptions{dryRun: menuPrintOnly})
		if err != nil {
			return handleError(ErrCatalogError, err, "Check the catalog path with 'wikilinx config show'")
		}
		defer s.Close()

		var warnings []Warning
		if err := seedMenuState(s.memory, opened); err != nil {
			warnings = append(warnings, Warning{Code: WarnInvalidSelect, Message: err.Error()})
		}

		s.menus.Open(opened)

		result := menuResult{
			Type:    opened.Type.String(),
			Addon:   opened.AddonName,
			Entries: []menuEntry{},
		}
		items := opened.Items()
		if len(items) > 0 {
			result.ItemID = opened.ItemID()
		}
		for _, it := range items {
			result.Entries = append(result.Entries, menuEntry{Name: it.Name, Kind: entryKind(it)})
		}

		if menuClick != "" {
			idx := -1
			for i, it := range items {
				if entryKind(it) == menuClick {
					idx = i
					break
				}
			}
			if idx < 0 {
				return handleErrorMsg(ErrInvalidInput,
					fmt.Sprintf("menu has no %s entry", menuClick),
					"Check the item resolves and the entry is enabled in 'wikilinx config show'")
			}
			items[idx].OnClicked()
			result.Clicked = menuClick
			result.Opened = s.opener.opened
		}

		warnings = append(warnings, s.notifier.warnings()...)
		if isJSONOutput() {
			outputSuccessWithWarnings(result, warnings, &Meta{Count: len(result.Entries)})
			return nil
		}

		printMenu(result, items, warnings)
		return nil
	},
}

// menuArgs builds the menu event from the flags.
func menuArgs() (*menu.OpenedArgs, error) {
	switch {
	case menuInventory != "" && menuAddon != "":
		return nil, fmt.Errorf("--inventory and --addon are mutually exclusive")
	case menuInventory != "":
		raw, err := parseItemID(menuInventory)
		if err != nil {
			return nil, err
		}
		if raw > math.MaxUint32 {
			return nil, fmt.Errorf("inventory item ID %d out of range", raw)
		}
		args := &menu.OpenedArgs{Type: menu.Inventory, AddonName: "Inventory"}
		if raw != 0 {
			args.Target = &menu.InventoryTarget{BaseItemID: uint32(raw)}
		}
		return args, nil
	case menuAddon != "":
		return &menu.OpenedArgs{Type: menu.Default, AddonName: menuAddon}, nil
	default:
		return nil, fmt.Errorf("specify --inventory <item-id> or --addon <name>")
	}
}

// seedMenuState writes --item and --hover into the simulated client.
func seedMenuState(mem *agent.Snapshot, args *menu.OpenedArgs) error {
	if menuHover != "" {
		raw, err := parseItemID(menuHover)
		if err != nil {
			return err
		}
		mem.Hovered = raw
	}
	if menuItem == "" {
		return nil
	}

	raw, err := parseItemID(menuItem)
	if err != nil {
		return err
	}
	loc, ok := agent.DefaultLocations[args.AddonName]
	if !ok {
		return fmt.Errorf("panel %q has no extraction strategy, --item ignored (supported: %s)",
			args.AddonName, strings.Join(agent.NewRegistry(nil).Supported(), ", "))
	}
	mem.Seed(loc, raw)
	return nil
}

func entryKind(it menu.Item) string {
	switch it.Prefix {
	case menu.BoxedLetterW:
		return "wiki"
	case menu.BoxedLetterE:
		return "db"
	default:
		return ""
	}
}

func printMenu(result menuResult, items []menu.Item, warnings []Warning) {
	for _, w := range warnings {
		if w.Code != WarnNotification {
			fmt.Fprintln(stderr, ui.Warning(w.Message))
		}
	}

	header := fmt.Sprintf("%s menu (%s)", result.Type, result.Addon)
	if len(items) == 0 {
		fmt.Fprintln(stdout, ui.Header(header))
		fmt.Fprintln(stdout, ui.Hint("  no Wikilinx entries"))
		return
	}

	fmt.Fprintf(stdout, "%s %s\n", ui.Header(header), ui.Hint(fmt.Sprintf("item %d", result.ItemID)))
	for _, it := range items {
		fmt.Fprintf(stdout, "  %s %s\n", ui.Accent.Render(glyphLabel(it.Prefix)), it.Name)
	}
	for _, url := range result.Opened {
		if menuPrintOnly {
			fmt.Fprintln(stdout, url)
			continue
		}
		fmt.Fprintln(stdout, ui.Successf("Opened %s", formatURL(url, ui.Accent.Render)))
	}
}

// glyphLabel renders the in-game boxed letter glyphs, which live in the
// client's private use area, as plain text.
func glyphLabel(g menu.Glyph) string {
	switch g {
	case menu.BoxedLetterW:
		return "[W]"
	case menu.BoxedLetterE:
		return "[E]"
	default:
		return "[ ]"
	}
}

func init() {
	menuCmd.Flags().StringVar(&menuAddon, "addon", "", "Panel the menu was opened on")
	menuCmd.Flags().StringVar(&menuItem, "item", "", "Item ID the panel's agent holds")
	menuCmd.Flags().StringVar(&menuInventory, "inventory", "", "Open an inventory menu on this item ID (0 for an empty slot)")
	menuCmd.Flags().StringVar(&menuHover, "hover", "", "Item ID under the cursor")
	menuCmd.Flags().StringVar(&menuClick, "click", "", "Click an entry: wiki or db")
	menuCmd.Flags().BoolVar(&menuPrintOnly, "print", false, "Print URLs instead of opening them")
	rootCmd.AddCommand(menuCmd)
}
