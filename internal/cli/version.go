package cli

import (
	"fmt"

	"github.com/ariel-frischer/changelog/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		name := version.Version
		if version.IsDevBuild() {
			name += " (dev build)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "changelog %s\n", name)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
