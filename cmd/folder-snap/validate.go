package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/output"
)

var validateDeep bool

var validateCmd = &cobra.Command{
	Use:   "validate <archive>",
	Short: "Check an archive without restoring it",
	Long: `Validate parses an archive's metadata and reports its format version
("legacy" when it predates versioning) and summary counts. Nothing is
restored.

With --deep, a v3 archive's sidecar directory is audited: every content
file the manifest references must exist, and content files nothing
references are reported as orphans.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDeep, "deep", false, "audit v3 sidecar content files against the manifest")

	rootCmd.AddCommand(validateCmd)
}

// runValidate reports archive metadata and, optionally, sidecar health.
func runValidate(_ *cobra.Command, args []string) error {
	archivePath := args[0]

	report, err := archive.Validate(archivePath, validateDeep)
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	if err := renderReport(&output.Report{
		Operation:  "validate",
		Source:     archivePath,
		Validation: report,
	}); err != nil {
		return err
	}

	if report.Deep && !report.Healthy() {
		return fmt.Errorf("sidecar audit failed: %d missing, %d orphaned content files",
			len(report.MissingContent), len(report.OrphanContent))
	}
	return nil
}
