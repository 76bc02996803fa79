// Package archive serializes directory trees into portable archives and
// restores them. Three shapes exist: the legacy sentinel-wrapped text file,
// the v2 flat JSON document with inline content, and the v3 reference file
// backed by a sidecar snap directory. The writer selects a shape per
// operation; the reader detects the shape from the bytes it finds.
package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names one of the serialization shapes.
type Format string

const (
	// FormatLegacy is the sentinel-wrapped text shape produced by the
	// earliest exports and kept readable and writable for parity.
	FormatLegacy Format = "legacy"
	// FormatV2 is a single flat JSON document with inline content and
	// per-file encoding tags.
	FormatV2 Format = "v2"
	// FormatV3 is a small JSON reference file plus a sibling snap
	// directory holding the manifest and one content file per source file.
	FormatV3 Format = "v3"
)

// DefaultFormat is what pack produces when nothing is selected.
const DefaultFormat = FormatV3

// Metadata formatVersion values. Legacy archives carry none.
const (
	versionV2 = "2.0"
	versionV3 = "3.0"
)

// Legacy archive framing.
const (
	sentinelStart = "<FOLDER_SNAP_START>"
	sentinelEnd   = "<FOLDER_SNAP_END>"
	legacyHeader  = "# Folder Snap Export"
)

// Snap directory internals for the v3 shape.
const (
	manifestName   = "metadata.json"
	contentDirName = "content"
)

// ParseFormat maps a user-supplied format name to a Format. The empty
// string selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatLegacy, FormatV2, FormatV3:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("unknown archive format %q (expected legacy, v2, or v3)", s)
	}
}

// SnapDirName derives the sidecar directory name for a v3 archive path:
// the archive base name with any ".snap" suffix stripped, plus "_snap".
func SnapDirName(archivePath string) string {
	base := strings.TrimSuffix(filepath.Base(archivePath), ".snap")
	return base + "_snap"
}

// sidecarName builds the deterministic content filename for the file entry
// with the given ordinal. The index keeps same-named files in different
// directories from colliding after sanitization.
func sidecarName(index int, relPath string) string {
	return fmt.Sprintf("content_%d_%s.bin", index, sanitize(relPath))
}

// sanitize replaces every character outside [A-Za-z0-9._-] with an
// underscore so a relative path becomes a safe flat filename.
func sanitize(relPath string) string {
	var b strings.Builder
	b.Grow(len(relPath))
	for _, r := range relPath {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
