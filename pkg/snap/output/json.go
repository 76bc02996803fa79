package output

import (
	"bytes"
	"encoding/json"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// jsonReport is the JSON view of a Report. Durations become strings and
// unset sections are omitted.
type jsonReport struct {
	Operation   string          `json:"operation"`
	Source      string          `json:"source"`
	Target      string          `json:"target,omitempty"`
	Archive     *types.Result   `json:"archive,omitempty"`
	Stats       *types.Stats    `json:"stats,omitempty"`
	Validation  *archive.Report `json:"validation,omitempty"`
	ArchiveSize int64           `json:"archiveSize,omitempty"`
	Elapsed     string          `json:"elapsed,omitempty"`
}

// JSONFormatter formats a report as a single indented JSON object,
// suitable for scripting.
type JSONFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := jsonReport{
		Operation:   r.Operation,
		Source:      r.Source,
		Target:      r.Target,
		Archive:     r.Archive,
		Stats:       r.Stats,
		Validation:  r.Validation,
		ArchiveSize: r.ArchiveBytes,
	}
	if r.Elapsed > 0 {
		out.Elapsed = r.Elapsed.String()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
