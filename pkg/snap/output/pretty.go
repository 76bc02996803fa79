package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats reports with colors and styling using lipgloss.
// It produces a boxed summary suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	lines := []string{f.title(r)}

	switch {
	case r.Stats != nil:
		lines = append(lines, f.statsLines(r)...)
	case r.Validation != nil:
		lines = append(lines, f.validationLines(r)...)
	case r.Archive != nil:
		lines = append(lines, f.archiveLines(r)...)
	}

	if r.Elapsed > 0 {
		lines = append(lines, field("Elapsed:", MutedStyle.Render(formatElapsed(r.Elapsed))))
	}

	w.WriteString(HeaderBox.Render(strings.Join(lines, "\n")))
	w.WriteString("\n")
	return nil
}

// title builds the headline naming the operation and its source.
func (f *PrettyFormatter) title(r *Report) string {
	verb := r.Operation
	switch r.Operation {
	case "pack":
		verb = "Packed"
	case "unpack":
		verb = "Restored"
	case "stats":
		verb = "Stats"
	case "validate":
		verb = "Validated"
	case "upgrade":
		verb = "Upgraded"
	}
	return TitleStyle.Render(verb) + " " + ValueStyle.Render(r.Source)
}

// archiveLines renders pack/unpack/upgrade outcomes.
func (f *PrettyFormatter) archiveLines(r *Report) []string {
	res := r.Archive
	var lines []string

	if r.Target != "" {
		lines = append(lines, field("Target:", ValueStyle.Render(r.Target)))
	}
	lines = append(lines, field("Format:", ValueStyle.Render(res.Metadata.Version())))
	lines = append(lines, fmt.Sprintf("%s  %s",
		field("Files:", ValueStyle.Render(fmt.Sprintf("%d", res.Metadata.TotalFiles))),
		field("Directories:", ValueStyle.Render(fmt.Sprintf("%d", res.Metadata.TotalDirectories)))))

	if r.ArchiveBytes > 0 {
		lines = append(lines, field("Archive size:", SizeStyle.Render(humanize.IBytes(uint64(r.ArchiveBytes)))))
	}

	if res.Warnings > 0 {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("%d entries recovered with warnings", res.Warnings)))
	} else {
		lines = append(lines, SuccessStyle.Render("No warnings"))
	}
	return lines
}

// statsLines renders stats outcomes.
func (f *PrettyFormatter) statsLines(r *Report) []string {
	s := r.Stats
	return []string{
		fmt.Sprintf("%s  %s",
			field("Files:", ValueStyle.Render(fmt.Sprintf("%d", s.FileCount))),
			field("Directories:", ValueStyle.Render(fmt.Sprintf("%d", s.DirectoryCount)))),
		fmt.Sprintf("%s %s",
			field("Total size:", SizeStyle.Render(s.TotalBytesFormatted)),
			MutedStyle.Render("("+humanize.Comma(s.TotalBytes)+" bytes)")),
	}
}

// validationLines renders validate outcomes, including deep audit results.
func (f *PrettyFormatter) validationLines(r *Report) []string {
	v := r.Validation
	lines := []string{
		field("Format:", ValueStyle.Render(v.FormatVersion)),
		fmt.Sprintf("%s  %s",
			field("Files:", ValueStyle.Render(fmt.Sprintf("%d", v.Metadata.TotalFiles))),
			field("Directories:", ValueStyle.Render(fmt.Sprintf("%d", v.Metadata.TotalDirectories)))),
		field("Entries:", ValueStyle.Render(fmt.Sprintf("%d", v.EntryCount))),
		field("Generated:", ValueStyle.Render(v.Metadata.Timestamp)),
	}

	if v.Deep {
		if v.Healthy() {
			lines = append(lines, SuccessStyle.Render("Sidecar content verified"))
		} else {
			for _, name := range v.MissingContent {
				lines = append(lines, ErrorStyle.Render("missing: "+name))
			}
			for _, name := range v.OrphanContent {
				lines = append(lines, WarningStyle.Render("orphan: "+name))
			}
		}
	}
	return lines
}

// field renders a label/value pair.
func field(label, value string) string {
	return LabelStyle.Render(label) + " " + value
}

// formatElapsed formats a duration in a human-friendly way.
func formatElapsed(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
