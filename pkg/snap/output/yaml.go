package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlReport is the YAML view of a Report. The archive/stats/validation
// sections mirror the JSON formatter but with snake_case keys.
type yamlReport struct {
	Operation  string          `yaml:"operation"`
	Source     string          `yaml:"source"`
	Target     string          `yaml:"target,omitempty"`
	Archive    *yamlArchive    `yaml:"archive,omitempty"`
	Stats      *yamlStats      `yaml:"stats,omitempty"`
	Validation *yamlValidation `yaml:"validation,omitempty"`
	Elapsed    string          `yaml:"elapsed,omitempty"`
}

type yamlArchive struct {
	Format      string `yaml:"format"`
	Files       int    `yaml:"files"`
	Directories int    `yaml:"directories"`
	Generated   string `yaml:"generated"`
	SizeBytes   int64  `yaml:"size_bytes,omitempty"`
	Warnings    int    `yaml:"warnings"`
}

type yamlStats struct {
	Files       int    `yaml:"files"`
	Directories int    `yaml:"directories"`
	TotalBytes  int64  `yaml:"total_bytes"`
	TotalHuman  string `yaml:"total_human"`
}

type yamlValidation struct {
	Format         string   `yaml:"format"`
	Files          int      `yaml:"files"`
	Directories    int      `yaml:"directories"`
	Entries        int      `yaml:"entries"`
	Generated      string   `yaml:"generated"`
	Deep           bool     `yaml:"deep"`
	MissingContent []string `yaml:"missing_content,omitempty"`
	OrphanContent  []string `yaml:"orphan_content,omitempty"`
}

// YAMLFormatter formats a report as YAML.
// It carries the same information as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts a Report to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Report) yamlReport {
	out := yamlReport{
		Operation: r.Operation,
		Source:    r.Source,
		Target:    r.Target,
	}
	if r.Elapsed > 0 {
		out.Elapsed = r.Elapsed.String()
	}

	if r.Archive != nil {
		out.Archive = &yamlArchive{
			Format:      r.Archive.Metadata.Version(),
			Files:       r.Archive.Metadata.TotalFiles,
			Directories: r.Archive.Metadata.TotalDirectories,
			Generated:   r.Archive.Metadata.Timestamp,
			SizeBytes:   r.ArchiveBytes,
			Warnings:    r.Archive.Warnings,
		}
	}

	if r.Stats != nil {
		out.Stats = &yamlStats{
			Files:       r.Stats.FileCount,
			Directories: r.Stats.DirectoryCount,
			TotalBytes:  r.Stats.TotalBytes,
			TotalHuman:  r.Stats.TotalBytesFormatted,
		}
	}

	if r.Validation != nil {
		out.Validation = &yamlValidation{
			Format:         r.Validation.FormatVersion,
			Files:          r.Validation.Metadata.TotalFiles,
			Directories:    r.Validation.Metadata.TotalDirectories,
			Entries:        r.Validation.EntryCount,
			Generated:      r.Validation.Metadata.Timestamp,
			Deep:           r.Validation.Deep,
			MissingContent: r.Validation.MissingContent,
			OrphanContent:  r.Validation.OrphanContent,
		}
	}

	return out
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
