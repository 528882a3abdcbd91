package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumbgen/internal/batch"
	"thumbgen/internal/filesystem"
	"thumbgen/internal/logging"
	"thumbgen/internal/storage"
)

// ErrNoSources is returned when the given paths hold no images.
var ErrNoSources = errors.New("no image files found")

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Thumbnail files and directories into one archive",
		Long: `Thumbnail every given file and every image directly inside the given
directories. The archive holds manifest.csv and thumbs/<name> per thumbnail.
Ctrl+C stops the batch; whatever finished is still written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, v, args)
		},
	}
	addThumbnailFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	return cmd
}

func runBatch(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}
	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		return err
	}

	items, skipped, err := filesystem.Collect(args, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	for _, s := range skipped {
		logging.Debug("Skipping %s", s)
	}
	if len(items) == 0 {
		return ErrNoSources
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	dests, err := newSinks(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	monitor, err := startMemoryMonitor(cfg)
	if err != nil {
		return err
	}
	defer monitor.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := newProgress(errOut)
	outcome, err := newDispatcher(cfg, monitor).Run(ctx, items, opts, bar.Update)
	bar.Finish()
	stop()

	cancelled := errors.Is(err, batch.ErrCancelled)
	if err != nil && !cancelled {
		return err
	}

	location, saveErr := storage.Save(context.WithoutCancel(cmd.Context()), dests.forArchive(cfg.Output.ArchiveName), outcome)
	if saveErr != nil {
		return saveErr
	}

	if cancelled {
		fmt.Fprintf(out, "Stopped. %d of %d files processed, partial archive at %s\n",
			len(outcome.Results), outcome.Total, location)
		return err
	}

	printSummary(out, outcome, location)
	return nil
}
