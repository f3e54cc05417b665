package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/plugin"
	"github.com/wikilinx/wikilinx/internal/ui"
)

// settingsKeys are edited through the plugin's settings window.
var settingsKeys = []string{
	plugin.WidgetLodestoneEnabled,
	plugin.WidgetWikiEnabled,
	plugin.WidgetWikiURL,
	plugin.WidgetReplaceWhitespace,
	plugin.WidgetWhitespaceReplacement,
}

// cliKeys are stored in config.toml. An empty value clears the key.
var cliKeys = map[string]func(c *config.Config, v string){
	"language":      func(c *config.Config, v string) { c.Language = v },
	"catalog":       func(c *config.Config, v string) { c.Catalog = v },
	"id_table":      func(c *config.Config, v string) { c.IDTable = v },
	"browser":       func(c *config.Config, v string) { c.Browser = v },
	"settings_file": func(c *config.Config, v string) { c.SettingsFile = v },
	"log.level":     func(c *config.Config, v string) { c.Log.Level = v },
	"log.format":    func(c *config.Config, v string) { c.Log.Format = v },
	"ui.accent":     func(c *config.Config, v string) { c.UI.Accent = v },
}

func knownKeys() []string {
	keys := append([]string{}, settingsKeys...)
	cli := make([]string, 0, len(cliKeys))
	for k := range cliKeys {
		cli = append(cli, k)
	}
	sort.Strings(cli)
	return append(keys, cli...)
}

func isSettingsKey(key string) bool {
	for _, k := range settingsKeys {
		if k == key {
			return true
		}
	}
	return false
}

func configData(settings config.Settings) map[string]interface{} {
	c := getConfig()
	return map[string]interface{}{
		"config_path":   resolvedConfigPath,
		"settings_path": resolvedSettingsPath,
		"catalog_path":  catalogPath(),
		"language":      resolvedLanguage.String(),
		"region":        i18n.Region(resolvedLanguage),
		"settings":      settings,
		"cli": map[string]interface{}{
			"language":   c.Language,
			"catalog":    c.Catalog,
			"id_table":   c.IDTable,
			"browser":    c.Browser,
			"log_level":  c.Log.Level,
			"log_format": c.Log.Format,
			"ui_accent":  c.UI.Accent,
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(resolvedSettingsPath)
	var warnings []Warning
	if err != nil {
		getLogger().Warn("failed to load settings, showing defaults", "path", resolvedSettingsPath, "error", err)
		warnings = append(warnings, Warning{Code: WarnSettingsFile, Message: err.Error()})
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(configData(settings), warnings, nil)
		return nil
	}

	for _, w := range warnings {
		fmt.Fprintln(stderr, ui.Warning(w.Message))
	}
	fmt.Fprint(stdout, ui.KeyValues([]ui.Field{
		{Label: "config", Value: resolvedConfigPath},
		{Label: "settings", Value: resolvedSettingsPath},
		{Label: "catalog", Value: catalogPath()},
		{Label: "language", Value: fmt.Sprintf("%s (%s)", resolvedLanguage, i18n.Region(resolvedLanguage))},
	}))
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, ui.KeyValues([]ui.Field{
		{Label: plugin.WidgetWikiEnabled, Value: fmt.Sprint(settings.WikiEnabled)},
		{Label: plugin.WidgetWikiURL, Value: settings.WikiURL},
		{Label: plugin.WidgetReplaceWhitespace, Value: fmt.Sprint(settings.ReplaceWhitespace)},
		{Label: plugin.WidgetWhitespaceReplacement, Value: fmt.Sprintf("%q", settings.WhitespaceReplacement)},
		{Label: plugin.WidgetLodestoneEnabled, Value: fmt.Sprint(settings.LodestoneEnabled)},
	}))
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit Wikilinx settings",
	Long: `Show and edit Wikilinx settings.

Plugin settings (the in-game settings window) live in settings.toml and are
saved on every change. Terminal settings live in config.toml.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config and settings file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]string{
				"config_path":   resolvedConfigPath,
				"settings_path": resolvedSettingsPath,
			}, nil)
			return nil
		}
		fmt.Fprintln(stdout, resolvedConfigPath)
		fmt.Fprintln(stdout, resolvedSettingsPath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, statErr := os.Stat(resolvedConfigPath)
		existed := statErr == nil

		createdPath, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}
		if existed {
			fmt.Fprintln(stdout, ui.Info("Config already exists: "+createdPath))
		} else {
			fmt.Fprintln(stdout, ui.Success("Created config: "+createdPath))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a plugin or terminal setting",
	Long: `Sets one setting. Plugin settings are applied through the settings window
and saved immediately:

  ` + strings.Join(settingsKeys, "\n  ") + `

Terminal settings are written to config.toml; an empty value clears them:

  language, catalog, id_table, browser, settings_file,
  log.level, log.format, ui.accent

Examples:
  wikilinx config set lodestone_enabled true
  wikilinx config set whitespace_replacement _
  wikilinx config set language de`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch {
		case isSettingsKey(key):
			return setPluginSetting(key, value)
		case cliKeys[key] != nil:
			return setCLIConfig(key, value)
		default:
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown setting %q", key),
				"Known settings: "+strings.Join(knownKeys(), ", "))
		}
	},
}

func setPluginSetting(key, value string) error {
	store := config.OpenStore(resolvedSettingsPath, getLogger())
	tr, err := i18n.New(resolvedLanguage)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	edits := &plugin.EditWidgets{Edits: map[string]string{key: value}}
	plugin.NewConfigWindow(store, tr).Draw(edits)
	if len(edits.Invalid) > 0 {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid value %q for %s", value, key),
			"Use true or false")
	}

	saved, err := config.LoadSettings(resolvedSettingsPath)
	if err != nil || saved != store.Settings() {
		return handleErrorMsg(ErrConfigInvalid, "failed to save settings to "+resolvedSettingsPath, "")
	}

	if isJSONOutput() {
		data := configData(saved)
		data["changed"] = []string{key}
		outputSuccess(data, nil)
		return nil
	}
	fmt.Fprintln(stdout, ui.Successf("Set %s in %s", key, ui.Accent.Render(resolvedSettingsPath)))
	return nil
}

func setCLIConfig(key, value string) error {
	c := *getConfig()
	cliKeys[key](&c, strings.TrimSpace(value))
	if err := config.SaveTo(resolvedConfigPath, &c); err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	cfg = &c

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": resolvedConfigPath,
			"changed":     []string{key},
		}, nil)
		return nil
	}
	fmt.Fprintln(stdout, ui.Successf("Set %s in %s", key, ui.Accent.Render(resolvedConfigPath)))
	return nil
}

var configToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Open the plugin settings window",
	Long: `Presses the host's settings button, which toggles the Wikilinx settings
window, and draws one frame of it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(sessionOptions{dryRun: true})
		if err != nil {
			return handleError(ErrCatalogError, err, "")
		}
		defer s.Close()

		s.ui.OpenConfig()
		win := s.plugin.ConfigWindow()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"window":   win.Title(),
				"open":     win.IsOpen(),
				"settings": s.plugin.Settings.Settings(),
			}, nil)
			return nil
		}

		fmt.Fprintln(stdout, ui.Header(s.plugin.Windows.Name()))
		s.ui.Frame(textWidgets{out: stdout})
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configSetCmd, configToggleCmd)
	rootCmd.AddCommand(configCmd)
}
