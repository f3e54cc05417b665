package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikilinx/wikilinx/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show Wikilinx version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Current()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Fprintf(stdout, "wikilinx %s\n", info.Version)
		fmt.Fprintf(stdout, "module: %s\n", info.ModulePath)
		if info.Commit != "" {
			fmt.Fprintf(stdout, "commit: %s\n", info.Commit)
		}
		if info.CommitTime != "" {
			fmt.Fprintf(stdout, "commit_time: %s\n", info.CommitTime)
		}
		fmt.Fprintf(stdout, "go: %s\n", info.GoVersion)
		fmt.Fprintf(stdout, "platform: %s\n", info.Platform)
		fmt.Fprintf(stdout, "modified: %t\n", info.Modified)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
