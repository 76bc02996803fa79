package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HaiderNakara/folder-snap/pkg/snap/config"
	"github.com/HaiderNakara/folder-snap/pkg/snap/history"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the history of pack, unpack, and upgrade operations.

Every completed operation is recorded in a local journal, including the
source, the archive written or read, and the entry counts.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific operation",
	Long:  `Display detailed information about a specific operation by its ID. A unique ID prefix is accepted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openJournal opens the history journal at the configured location.
func openJournal() (*history.Journal, error) {
	cfg, err := config.Load()
	if err != nil {
		return history.Open(config.DefaultHistoryPath())
	}

	dir := cfg.History.Path
	if dir == "" {
		dir = config.DefaultHistoryPath()
	}
	return history.Open(dir)
}

// recordHistory appends a record to the journal, best effort. Operations
// never fail because the journal is unavailable.
func recordHistory(rec history.Record) {
	cfg, err := config.Load()
	if err == nil && !cfg.History.Enabled {
		return
	}

	j, err := openJournal()
	if err != nil {
		logging.Get("history").Warn("history journal unavailable", "error", err)
		return
	}
	defer j.Close()

	if _, err := j.Append(rec); err != nil {
		logging.Get("history").Warn("failed to record operation", "error", err)
	}
}

// runHistory lists recent operations.
func runHistory(_ *cobra.Command, _ []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open history journal: %w", err)
	}
	defer j.Close()

	records, err := j.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'folder-snap pack <folder>' to create an archive.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-36s  %-8s  %-8s  %-6s  %-6s  %s\n", "ID", "OP", "FORMAT", "FILES", "DIRS", "WHEN")
	fmt.Println(strings.Repeat("-", 92))

	for _, rec := range records {
		fmt.Printf("%-36s  %-8s  %-8s  %-6d  %-6d  %s\n",
			truncateString(rec.ID, 36),
			rec.Operation,
			rec.Format,
			rec.Files,
			rec.Directories,
			rec.Timestamp.Local().Format("2006-01-02 15:04"),
		)
	}

	fmt.Println(strings.Repeat("-", 92))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(records))
	fmt.Println("Use 'folder-snap history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(_ *cobra.Command, args []string) error {
	id := args[0]

	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open history journal: %w", err)
	}
	defer j.Close()

	rec, err := j.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:          %s\n", rec.ID)
	fmt.Printf("Timestamp:   %s\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:   %s\n", rec.Operation)
	fmt.Printf("Source:      %s\n", rec.Source)
	if rec.Target != "" {
		fmt.Printf("Target:      %s\n", rec.Target)
	}
	if rec.Format != "" {
		fmt.Printf("Format:      %s\n", rec.Format)
	}
	fmt.Printf("Files:       %d\n", rec.Files)
	fmt.Printf("Directories: %d\n", rec.Directories)
	fmt.Printf("Warnings:    %d\n", rec.Warnings)

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open history journal: %w", err)
	}
	defer j.Close()

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := j.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
