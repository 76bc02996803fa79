package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaiderNakara/folder-snap/pkg/snap/output"
	"github.com/HaiderNakara/folder-snap/pkg/snap/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats <source>",
	Short: "Report what packing a folder would include",
	Long: `Stats walks the source folder with exactly the filtering pack applies
and reports file and directory counts plus the total byte size, without
writing anything. The numbers always match a pack of the same unchanged
tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats aggregates a folder without archiving it.
func runStats(_ *cobra.Command, args []string) error {
	src, err := resolveDir(args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := stats.Collect(src, ignoreOptions())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	elapsed := time.Since(start)

	return renderReport(&output.Report{
		Operation: "stats",
		Source:    src,
		Stats:     result,
		Elapsed:   elapsed,
	})
}
