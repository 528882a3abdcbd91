package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumbgen/internal/logging"
	"thumbgen/internal/startup"
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd(ver string) *cobra.Command {
	v := startup.NewViper()

	cmd := &cobra.Command{
		Use:           "thumbgen",
		Short:         "Batch image thumbnail generator",
		Long:          "thumbgen resizes, reorients and packages images into a thumbnail archive with a CSV manifest.",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetLevel(logging.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ./thumbgen.yaml or $HOME/.config/thumbgen/thumbgen.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newRunCmd(v), newWatchCmd(v), newServeCmd(v), newVersionCmd())
	return cmd
}

// loadConfig binds the executing command's flags and loads the
// configuration.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*startup.Config, error) {
	if err := bindFlags(cmd.Flags(), v); err != nil {
		return nil, err
	}
	configFile, _ := cmd.Flags().GetString("config")
	return startup.LoadConfig(v, configFile)
}
