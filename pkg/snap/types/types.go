// Package types provides the core data types for folder-snap archives.
// It defines the walk entries produced by traversal, the persisted archive
// entries and metadata, operation results, and size formatting helpers.
package types

import (
	"math"
	"strconv"
)

// EntryType discriminates directory and file records within an archive.
type EntryType string

const (
	// EntryDirectory marks a directory record.
	EntryDirectory EntryType = "directory"
	// EntryFile marks a regular file record.
	EntryFile EntryType = "file"
)

// Encoding identifies how file content is represented in an archive.
type Encoding string

const (
	// EncodingText stores content verbatim as UTF-8 text.
	EncodingText Encoding = "text"
	// EncodingBinary stores content as base64 text.
	EncodingBinary Encoding = "binary"
)

// WalkEntry is one filesystem node produced by the tree walker. It is a
// transient construction-time value: AbsPath and ContentIndex exist so the
// writer can join file content later and are never serialized.
type WalkEntry struct {
	// Type is the node kind (directory or file).
	Type EntryType

	// RelativePath is the path relative to the walk root, slash-joined.
	RelativePath string

	// Name is the final path segment.
	Name string

	// Size is the file size in bytes as reported by the filesystem.
	// Zero for directories.
	Size int64

	// AbsPath is the absolute path of the node on disk.
	AbsPath string

	// ContentIndex is the ordinal of this file among all file entries in
	// walk order. It seeds deterministic sidecar content filenames.
	// -1 for directories.
	ContentIndex int
}

// Entry is one persisted directory or file record of an archive.
// File-only fields are omitted from directory records.
type Entry struct {
	// Type is the record kind ("directory" or "file").
	Type EntryType `json:"type"`

	// RelativePath is the path relative to the archived root.
	RelativePath string `json:"relativePath"`

	// Name is the final path segment.
	Name string `json:"name"`

	// Size is the original source size in bytes, independent of the
	// encoded representation size (base64 inflation does not change it).
	Size int64 `json:"size,omitempty"`

	// Encoding tags the content representation for file records.
	Encoding Encoding `json:"encoding,omitempty"`

	// Content holds the inline payload for legacy and v2 archives.
	Content string `json:"content,omitempty"`

	// ContentFile names the sidecar content file for v3 archives.
	ContentFile string `json:"contentFile,omitempty"`
}

// IsDir reports whether the entry is a directory record.
func (e *Entry) IsDir() bool {
	return e.Type == EntryDirectory
}

// Metadata describes an archive as a whole.
type Metadata struct {
	// Timestamp is the archive generation time, RFC 3339 UTC.
	Timestamp string `json:"timestamp"`

	// SourceFolder is the base name of the folder that was packed.
	SourceFolder string `json:"sourceFolder"`

	// TotalFiles counts file entries.
	TotalFiles int `json:"totalFiles"`

	// TotalDirectories counts directory entries.
	TotalDirectories int `json:"totalDirectories"`

	// FormatVersion discriminates the archive shape on read.
	// Empty means legacy; "2.0" and "3.0" select the JSON shapes.
	FormatVersion string `json:"formatVersion,omitempty"`
}

// Version reports the archive format version, naming absent versions "legacy".
func (m *Metadata) Version() string {
	if m.FormatVersion == "" {
		return "legacy"
	}
	return m.FormatVersion
}

// Archive is the complete serialized representation of a source tree:
// metadata plus entries in pre-order walk order. A directory entry always
// precedes every entry whose path it prefixes.
type Archive struct {
	Metadata Metadata `json:"metadata"`
	Entries  []Entry  `json:"entries"`
}

// Reference is the small pointer object a v3 archive stores at the archive
// path itself. The entries and content live in the sibling snap directory.
type Reference struct {
	// Type is the v3 marker, always "folder-snap-v3".
	Type string `json:"type"`

	// SnapDirectory is the name of the sibling directory holding
	// metadata.json and the content files.
	SnapDirectory string `json:"snapDirectory"`

	// Metadata summarises the archive without opening the snap directory.
	Metadata Metadata `json:"metadata"`
}

// ReferenceType is the type tag identifying a v3 reference object.
const ReferenceType = "folder-snap-v3"

// Result is the outcome of a completed pack, unpack, or upgrade operation.
type Result struct {
	// Metadata is the archive metadata the operation produced or read.
	Metadata Metadata `json:"metadata"`

	// Path is the archive path written (pack/upgrade) or read (unpack).
	Path string `json:"path"`

	// Warnings counts per-entry failures that were recovered locally
	// (unreadable source files, failed restores) without aborting.
	Warnings int `json:"warnings"`
}

// Stats aggregates a filtered tree without persisting anything.
// A stats run and a subsequent pack of an unchanged tree agree on counts.
type Stats struct {
	FileCount           int    `json:"fileCount"`
	DirectoryCount      int    `json:"directoryCount"`
	TotalBytes          int64  `json:"totalBytes"`
	TotalBytesFormatted string `json:"totalBytesFormatted"`
}

// FormatSize converts a byte count to the human-readable form the archive
// tooling has always printed: 1024-based units labelled Bytes/KB/MB/GB/TB
// with up to two decimal places, trailing zeros trimmed.
//
// Examples:
//   - FormatSize(0) returns "0 Bytes"
//   - FormatSize(1536) returns "1.5 KB"
//   - FormatSize(1048576) returns "1 MB"
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[unit]
}
