package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/history"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
	"github.com/HaiderNakara/folder-snap/pkg/snap/output"
)

var packCmd = &cobra.Command{
	Use:   "pack <source> [archive]",
	Short: "Archive a folder into a snapshot file",
	Long: `Pack walks the source folder, filters it through the ignore rules, and
writes an archive. The default v3 format stores a small reference file
plus a sidecar directory with one content file per source file; v2 is a
single JSON document with inline content; legacy is the original
sentinel-wrapped text format.

Examples:
  folder-snap pack ./project                 # project.snap + project_snap/
  folder-snap pack ./project backup.snap
  folder-snap pack -f v2 ./project flat.snap
  folder-snap pack -f legacy ./project old.snap`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringP("format", "f", "", "archive format: legacy, v2, or v3 (default v3)")
	_ = viper.BindPFlag("format", packCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(packCmd)
}

// runPack archives a source folder.
func runPack(_ *cobra.Command, args []string) error {
	src, err := resolveDir(args[0])
	if err != nil {
		return err
	}

	out := defaultArchivePath(src)
	if len(args) > 1 {
		out = args[1]
	}

	format, err := archive.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}

	printVerbose("Packing %s -> %s (%s)", src, out, format)

	start := time.Now()
	writer := archive.NewWriter(archive.WriteOptions{
		Format: format,
		Ignore: ignoreOptions(),
	})
	result, err := writer.Write(src, out)
	if err != nil {
		return fmt.Errorf("pack failed: %w", err)
	}
	elapsed := time.Since(start)

	logging.Get("archive").Info("pack complete",
		"source", src,
		"target", out,
		"format", result.Metadata.Version(),
		"files", result.Metadata.TotalFiles,
		"directories", result.Metadata.TotalDirectories,
		"warnings", result.Warnings,
	)

	recordHistory(history.Record{
		Operation:   "pack",
		Source:      src,
		Target:      out,
		Format:      result.Metadata.Version(),
		Files:       result.Metadata.TotalFiles,
		Directories: result.Metadata.TotalDirectories,
		Warnings:    result.Warnings,
	})

	return renderReport(&output.Report{
		Operation:    "pack",
		Source:       src,
		Target:       out,
		Archive:      result,
		ArchiveBytes: archiveSize(out),
		Elapsed:      elapsed,
	})
}
