package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"
)

// PlainFormatter formats a report as aligned key/value text with no colors
// or styling, suitable for piping.
type PlainFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	row := func(key, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}

	row("operation", r.Operation)
	row("source", r.Source)
	if r.Target != "" {
		row("target", r.Target)
	}

	switch {
	case r.Stats != nil:
		row("files", strconv.Itoa(r.Stats.FileCount))
		row("directories", strconv.Itoa(r.Stats.DirectoryCount))
		row("bytes", strconv.FormatInt(r.Stats.TotalBytes, 10))
		row("size", r.Stats.TotalBytesFormatted)
	case r.Validation != nil:
		v := r.Validation
		row("format", v.FormatVersion)
		row("files", strconv.Itoa(v.Metadata.TotalFiles))
		row("directories", strconv.Itoa(v.Metadata.TotalDirectories))
		row("entries", strconv.Itoa(v.EntryCount))
		row("generated", v.Metadata.Timestamp)
		if v.Deep {
			row("missing", strconv.Itoa(len(v.MissingContent)))
			row("orphans", strconv.Itoa(len(v.OrphanContent)))
			for _, name := range v.MissingContent {
				row("missing-file", name)
			}
			for _, name := range v.OrphanContent {
				row("orphan-file", name)
			}
		}
	case r.Archive != nil:
		res := r.Archive
		row("format", res.Metadata.Version())
		row("files", strconv.Itoa(res.Metadata.TotalFiles))
		row("directories", strconv.Itoa(res.Metadata.TotalDirectories))
		row("warnings", strconv.Itoa(res.Warnings))
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
