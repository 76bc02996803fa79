package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/history"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
	"github.com/HaiderNakara/folder-snap/pkg/snap/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <source> [archive]",
	Short: "Continuously re-pack a folder as it changes",
	Long: `Watch packs the source folder once, then watches it recursively. Each
burst of filesystem changes is debounced; once the tree settles, the
folder is packed again to the same archive path. Press Ctrl-C to stop.

The archive output is excluded from watching, so packing into the
watched tree does not retrigger itself.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("format", "f", "", "archive format: legacy, v2, or v3 (default v3)")
	watchCmd.Flags().Duration("debounce", 0, "settle time between a change burst and the re-pack (default 2s)")
	_ = viper.BindPFlag("format", watchCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(watchCmd)
}

// runWatch packs once, then re-packs on every settled change burst.
func runWatch(_ *cobra.Command, args []string) error {
	src, err := resolveDir(args[0])
	if err != nil {
		return err
	}

	out := defaultArchivePath(src)
	if len(args) > 1 {
		out = args[1]
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %w", err)
	}

	format, err := archive.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}

	writer := archive.NewWriter(archive.WriteOptions{
		Format: format,
		Ignore: ignoreOptions(),
	})

	pack := func(reason string) {
		result, err := writer.Write(src, absOut)
		if err != nil {
			printError("Pack failed: %v", err)
			logging.Get("watch").Error("pack failed", "source", src, "error", err)
			return
		}

		logging.Get("watch").Info("packed",
			"reason", reason,
			"files", result.Metadata.TotalFiles,
			"directories", result.Metadata.TotalDirectories,
			"warnings", result.Warnings,
		)
		printInfo("[%s] packed %d files, %d directories (%d warnings)",
			time.Now().Format("15:04:05"),
			result.Metadata.TotalFiles, result.Metadata.TotalDirectories, result.Warnings)

		recordHistory(history.Record{
			Operation:   "watch",
			Source:      src,
			Target:      absOut,
			Format:      result.Metadata.Version(),
			Files:       result.Metadata.TotalFiles,
			Directories: result.Metadata.TotalDirectories,
			Warnings:    result.Warnings,
		})
	}

	// Initial snapshot before watching starts.
	pack("initial")

	debounce := viper.GetDuration("watch.debounce")
	w, err := watcher.New(watcher.Config{
		Debounce: debounce,
		Skip:     archiveOutputSkip(absOut),
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(src); err != nil {
		return fmt.Errorf("failed to watch %s: %w", src, err)
	}

	printInfo("Watching %s (%d directories). Press Ctrl-C to stop.", src, w.WatchedCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nStopping watch...")
		cancel()
	}()

	w.Run(ctx, func(changes int) {
		printVerbose("Change burst settled (%d events), re-packing", changes)
		pack("change")
	})

	return nil
}

// archiveOutputSkip builds a skip function excluding the archive file and
// its snap sidecar directory from watching, so a pack into the watched
// tree does not feed back into the watcher.
func archiveOutputSkip(absOut string) func(string) bool {
	snapDir := filepath.Join(filepath.Dir(absOut), archive.SnapDirName(absOut))
	return func(path string) bool {
		return path == absOut || path == snapDir ||
			strings.HasPrefix(path, snapDir+string(filepath.Separator))
	}
}
