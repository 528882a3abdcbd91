package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumbgen/internal/batch"
	"thumbgen/internal/filesystem"
	"thumbgen/internal/logging"
	"thumbgen/internal/model"
	"thumbgen/internal/storage"
	"thumbgen/internal/transform"
)

func newWatchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Thumbnail images as they are written into a directory",
		Long: `Watch a directory and run a batch whenever new or rewritten images have
settled. Each batch is written as <archive-name>-<batch id>.zip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchDir(cmd, v, args[0])
		},
	}
	addThumbnailFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", filesystem.DefaultDebounce, "quiet period before a batch starts")
	return cmd
}

func watchDir(cmd *cobra.Command, v *viper.Viper, dir string) error {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}
	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	dests, err := newSinks(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	w, err := filesystem.NewWatcher(dir, debounce)
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

	d := newDispatcher(cfg, monitor)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)

	err = w.Run(ctx, func(paths []string) {
		items := readSettled(paths)
		if len(items) == 0 {
			return
		}
		outcome, err := d.Run(ctx, items, opts, nil)
		if err != nil && !errors.Is(err, batch.ErrCancelled) {
			logging.Error("Batch failed: %v", err)
			return
		}
		sink := dests.forArchive(watchArchiveName(cfg.Output.ArchiveName, outcome.BatchID))
		location, err := storage.Save(context.WithoutCancel(ctx), sink, outcome)
		if err != nil {
			logging.Error("Batch %s: %v", outcome.BatchID, err)
			return
		}
		printSummary(out, outcome, location)
	})

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Stopped.")
		return nil
	}
	return err
}

// readSettled reads paths that still exist. Files removed between the event
// and the batch are skipped.
func readSettled(paths []string) []model.SourceItem {
	items := make([]model.SourceItem, 0, len(paths))
	for _, p := range paths {
		got, _, err := filesystem.Collect([]string{p}, filesystem.DefaultRetryConfig())
		if err != nil {
			logging.Warn("Skipping %s: %v", p, err)
			continue
		}
		items = append(items, got...)
	}
	return items
}

// watchArchiveName derives a per-batch archive name from the configured one.
func watchArchiveName(name, batchID string) string {
	base := transform.BaseName(name)
	ext := strings.TrimPrefix(name, base)
	if ext == "" {
		ext = ".zip"
	}
	return base + "-" + batchID + ext
}
