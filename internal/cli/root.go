// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/buildinfo"
	"github.com/wikilinx/wikilinx/internal/config"
	"github.com/wikilinx/wikilinx/internal/i18n"
	"github.com/wikilinx/wikilinx/internal/logger"
	"github.com/wikilinx/wikilinx/internal/ui"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvConfig   = "WIKILINX_CONFIG"
	EnvLanguage = "WIKILINX_LANG"
)

var (
	// Global flags
	configPath       string
	settingsPathFlag string
	catalogPathFlag  string
	languageFlag     string
	logLevelFlag     string
	noLinks          bool

	// Resolved values
	resolvedConfigPath   string
	resolvedSettingsPath string
	resolvedLanguage     i18n.ClientLanguage
	cfg                  *config.Config
	log                  *slog.Logger

	// stdout receives command output.
	stdout io.Writer = os.Stdout
	// stderr receives notifications and human-readable warnings.
	stderr io.Writer = os.Stderr
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wikilinx",
	Short: "Wikilinx - wiki and Eorzea Database links for FFXIV items",
	Long: `Wikilinx adds "Open Wiki Page" and "Open Eorzea DB Page" entries to item
context menus. This command runs the same engine against a local item catalog:
resolve items, open their pages, simulate context menus and edit the plugin
settings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			err = fmt.Errorf("failed to load config: %w", err)
			if isJSONOutput() {
				outputError(ErrConfigInvalid, err.Error(), nil, "Fix the file or pass --config with a valid path")
				return errReported
			}
			return err
		}

		level := cfg.Log.Level
		if strings.TrimSpace(logLevelFlag) != "" {
			level = logLevelFlag
		}
		log = logger.Init(logger.Config{
			Level:   level,
			Format:  cfg.Log.Format,
			Version: buildinfo.Short(),
		})

		ui.ConfigureTheme(cfg.UI.Accent)
		setHyperlinksDisabled(noLinks)

		resolvedSettingsPath = config.ResolveSettingsPath(settingsPathFlag, resolvedConfigPath, cfg)
		resolvedLanguage = resolveLanguage()
		return nil
	},
}

// errReported stops a command whose failure was already written as JSON.
var errReported = errors.New("error already reported")

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (env "+EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&settingsPathFlag, "settings", "", "Path to plugin settings file (overrides settings_file in config)")
	rootCmd.PersistentFlags().StringVar(&catalogPathFlag, "catalog", "", "Path to the SQLite item catalog")
	rootCmd.PersistentFlags().StringVar(&languageFlag, "lang", "", "Client language: en, ja, de, fr (env "+EnvLanguage+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&noLinks, "no-links", false, "Never emit terminal hyperlinks")
}

func getConfig() *config.Config {
	return cfg
}

func getLogger() *slog.Logger {
	if log == nil {
		return logger.Discard()
	}
	return log
}

// loadGlobalConfigWithPath loads config.toml from --config, $WIKILINX_CONFIG
// or the default location. A missing file yields an empty config.
func loadGlobalConfigWithPath() (*config.Config, string, error) {
	explicit := strings.TrimSpace(configPath)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	resolvedPath := config.ResolveConfigPath(explicit)

	if _, err := os.Stat(resolvedPath); os.IsNotExist(err) {
		return &config.Config{}, resolvedPath, nil
	}

	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, resolvedPath, nil
}

// resolveLanguage picks the client language: --lang, then $WIKILINX_LANG,
// then the config file, then $LANG. Unrecognized values fall through to the
// next source and finally to English.
func resolveLanguage() i18n.ClientLanguage {
	candidates := []string{languageFlag, os.Getenv(EnvLanguage)}
	if cfg != nil {
		candidates = append(candidates, cfg.Language)
	}
	candidates = append(candidates, os.Getenv("LANG"))

	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if lang, ok := i18n.ParseLanguage(c); ok {
			return lang
		}
		getLogger().Warn("unrecognized language", "value", c)
	}
	return i18n.English
}
