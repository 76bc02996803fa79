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

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <archive> [output]",
	Short: "Rewrite any readable archive in the v3 format",
	Long: `Upgrade reads a legacy, v2, or v3 archive and writes it back out in the
v3 sidecar format. Entry paths, sizes, and the original metadata are
preserved. When no output is given, the result lands next to the input
with a .v3.snap suffix.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

// runUpgrade rewrites an archive in the v3 shape.
func runUpgrade(_ *cobra.Command, args []string) error {
	in := args[0]

	out := upgradeTargetPath(in)
	if len(args) > 1 {
		out = args[1]
	}

	printVerbose("Upgrading %s -> %s", in, out)

	start := time.Now()
	result, err := archive.Upgrade(in, out)
	if err != nil {
		return fmt.Errorf("upgrade failed: %w", err)
	}
	elapsed := time.Since(start)

	logging.Get("archive").Info("upgrade complete",
		"archive", in,
		"target", out,
		"warnings", result.Warnings,
	)

	recordHistory(history.Record{
		Operation:   "upgrade",
		Source:      in,
		Target:      out,
		Format:      result.Metadata.Version(),
		Files:       result.Metadata.TotalFiles,
		Directories: result.Metadata.TotalDirectories,
		Warnings:    result.Warnings,
	})

	return renderReport(&output.Report{
		Operation:    "upgrade",
		Source:       in,
		Target:       out,
		Archive:      result,
		ArchiveBytes: archiveSize(out),
		Elapsed:      elapsed,
	})
}
