package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/history"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
	"github.com/HaiderNakara/folder-snap/pkg/snap/output"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive> <output-folder>",
	Short: "Restore a folder tree from a snapshot archive",
	Long: `Unpack detects the archive's format (legacy, v2, or v3), parses it, and
recreates the directory tree under the output folder. Directories come
first, then files; entries that cannot be restored are skipped with a
warning instead of aborting the rest.`,
	Args: cobra.ExactArgs(2),
	RunE: runUnpack,
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}

// runUnpack restores an archive into a folder.
func runUnpack(_ *cobra.Command, args []string) error {
	archivePath := args[0]
	outDir, err := resolveDir(args[1])
	if err != nil {
		return err
	}

	printVerbose("Restoring %s -> %s", archivePath, outDir)

	start := time.Now()
	result, err := archive.Restore(archivePath, outDir)
	if err != nil {
		return fmt.Errorf("unpack failed: %w", err)
	}
	elapsed := time.Since(start)

	logging.Get("archive").Info("unpack complete",
		"archive", archivePath,
		"target", outDir,
		"format", result.Metadata.Version(),
		"warnings", result.Warnings,
	)

	recordHistory(history.Record{
		Operation:   "unpack",
		Source:      archivePath,
		Target:      outDir,
		Format:      result.Metadata.Version(),
		Files:       result.Metadata.TotalFiles,
		Directories: result.Metadata.TotalDirectories,
		Warnings:    result.Warnings,
	})

	return renderReport(&output.Report{
		Operation: "unpack",
		Source:    archivePath,
		Target:    outDir,
		Archive:   result,
		Elapsed:   elapsed,
	})
}
