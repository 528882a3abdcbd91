package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"thumbgen/internal/startup"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := startup.GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "thumbgen %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}
}
