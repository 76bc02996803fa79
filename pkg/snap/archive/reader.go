package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HaiderNakara/folder-snap/pkg/snap/codec"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Source is a parsed archive plus the location of its content. SidecarDir
// is empty for inline archives (legacy and v2) and holds the resolved snap
// directory for v3.
type Source struct {
	Archive    *types.Archive
	Path       string
	SidecarDir string
}

// Load parses the archive at archivePath and identifies its shape. The
// file is parsed as JSON first: a "folder-snap-v3" type tag selects the
// sidecar shape, any other JSON document is read as a flat archive. When
// the JSON parse fails, the legacy sentinel framing is tried. An archive
// that satisfies neither fails with types.ErrInvalidFormat.
func Load(archivePath string) (*Source, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, archivePath)
		}
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrIOFailure, archivePath, err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		arc, lerr := parseLegacy(data)
		if lerr != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidFormat, archivePath)
		}
		return &Source{Archive: arc, Path: archivePath}, nil
	}

	if probe.Type == types.ReferenceType {
		return loadReference(archivePath, data)
	}

	arc, err := parseFlat(data)
	if err != nil {
		return nil, err
	}
	return &Source{Archive: arc, Path: archivePath}, nil
}

// parseFlat parses a flat archive document (legacy or v2 interior) and
// rejects documents missing metadata or entries.
func parseFlat(data []byte) (*types.Archive, error) {
	var arc types.Archive
	if err := json.Unmarshal(data, &arc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err)
	}
	if arc.Metadata == (types.Metadata{}) || arc.Entries == nil {
		return nil, fmt.Errorf("%w: missing metadata or entries", types.ErrInvalidFormat)
	}
	return &arc, nil
}

// parseLegacy extracts the JSON document between the legacy sentinel lines
// and parses it as a flat archive.
func parseLegacy(data []byte) (*types.Archive, error) {
	text := string(data)
	start := strings.Index(text, sentinelStart)
	end := strings.Index(text, sentinelEnd)
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("%w: sentinel markers not found", types.ErrInvalidFormat)
	}
	return parseFlat([]byte(text[start+len(sentinelStart) : end]))
}

// loadReference resolves a v3 reference: the snap directory named by the
// reference sits next to the archive file, and metadata.json inside it
// holds the full archive. A missing snap directory or manifest is a
// structural failure, not a warning.
func loadReference(archivePath string, data []byte) (*Source, error) {
	var ref types.Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("%w: bad v3 reference: %v", types.ErrInvalidFormat, err)
	}
	if ref.SnapDirectory == "" {
		return nil, fmt.Errorf("%w: v3 reference names no snap directory", types.ErrInvalidFormat)
	}

	snapDir := filepath.Join(filepath.Dir(archivePath), ref.SnapDirectory)
	doc, err := os.ReadFile(filepath.Join(snapDir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("%w: snap directory manifest unreadable: %v", types.ErrInvalidFormat, err)
	}
	arc, err := parseFlat(doc)
	if err != nil {
		return nil, err
	}
	return &Source{Archive: arc, Path: archivePath, SidecarDir: snapDir}, nil
}

// EntryBytes returns the raw content for a file entry: sidecar file bytes
// for v3 sources, the decoded inline payload otherwise. An error means
// the content is unavailable; callers recover with empty content.
func (s *Source) EntryBytes(e *types.Entry) ([]byte, error) {
	if s.SidecarDir != "" && e.ContentFile != "" {
		if !filepath.IsLocal(e.ContentFile) {
			return nil, fmt.Errorf("content file name escapes snap directory: %s", e.ContentFile)
		}
		data, err := os.ReadFile(filepath.Join(s.SidecarDir, contentDirName, e.ContentFile))
		if err != nil {
			return nil, fmt.Errorf("read content file %s: %w", e.ContentFile, err)
		}
		return data, nil
	}
	return codec.Decode(e.Content, e.Encoding)
}

// Restore parses the archive at archivePath and materializes it under
// outDir. Directories are created first, in archive order, then files,
// each ensuring its parent exists before writing. Individual entry
// failures are counted in the warning tally and do not stop the rest;
// only whole-archive structural problems fail the operation.
func Restore(archivePath, outDir string) (*types.Result, error) {
	src, err := Load(archivePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", types.ErrIOFailure, outDir, err)
	}

	warnings := 0

	// Directory entries precede their descendants in archive order, so a
	// single pass creates parents before children. Existing directories
	// are fine.
	for i := range src.Archive.Entries {
		e := &src.Archive.Entries[i]
		if !e.IsDir() {
			continue
		}
		target, ok := resolveTarget(outDir, e.RelativePath)
		if !ok {
			warnings++
			continue
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			warnings++
		}
	}

	// The per-file MkdirAll covers archives whose directory entries are
	// missing or failed above. Unavailable content restores as an empty
	// file rather than skipping the entry.
	for i := range src.Archive.Entries {
		e := &src.Archive.Entries[i]
		if e.IsDir() {
			continue
		}
		target, ok := resolveTarget(outDir, e.RelativePath)
		if !ok {
			warnings++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			warnings++
			continue
		}
		data, err := src.EntryBytes(e)
		if err != nil {
			warnings++
			data = nil
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			warnings++
		}
	}

	return &types.Result{Metadata: src.Archive.Metadata, Path: archivePath, Warnings: warnings}, nil
}

// resolveTarget joins a relative archive path under outDir, rejecting
// paths that would land outside it (absolute paths or parent traversal).
func resolveTarget(outDir, relPath string) (string, bool) {
	rel := filepath.FromSlash(relPath)
	if rel == "" || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(outDir, rel), true
}
