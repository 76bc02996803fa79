package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HaiderNakara/folder-snap/pkg/snap/codec"
	"github.com/HaiderNakara/folder-snap/pkg/snap/ignore"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
	"github.com/HaiderNakara/folder-snap/pkg/snap/walker"
)

// WriteOptions configure a pack operation.
type WriteOptions struct {
	// Format selects the serialization shape. Zero value means
	// DefaultFormat.
	Format Format

	// Ignore configures the filter built for the source folder.
	Ignore ignore.Options
}

// Writer archives directory trees. Each Write call loads a fresh ignore
// filter and performs a self-contained walk; a Writer holds no state
// between calls beyond its options.
type Writer struct {
	opts WriteOptions
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts WriteOptions) *Writer {
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	return &Writer{opts: opts}
}

// contentFunc returns the raw bytes for the file entry with the given
// ordinal. An error means the content is unavailable; the caller recovers
// with empty content and counts a warning.
type contentFunc func(index int, e *types.Entry) ([]byte, error)

// Write archives src into an archive at out. The source must exist and be
// a directory, otherwise Write fails with types.ErrInvalidSource. Files
// that cannot be read are archived with empty content and counted in the
// result's warning tally rather than failing the operation.
func (w *Writer) Write(src, out string) (*types.Result, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", src, err)
	}

	info, err := os.Stat(absSrc)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidSource, src)
		}
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrInvalidSource, src)
	}

	filter, err := ignore.Load(absSrc, w.opts.Ignore)
	if err != nil {
		return nil, err
	}

	walked, err := walker.New(filter).Walk(absSrc)
	if err != nil {
		return nil, err
	}

	meta := types.Metadata{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		SourceFolder:  filepath.Base(absSrc),
		FormatVersion: metadataVersion(w.opts.Format),
	}
	for _, we := range walked {
		if we.Type == types.EntryDirectory {
			meta.TotalDirectories++
		} else {
			meta.TotalFiles++
		}
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create parent of %s: %v", types.ErrIOFailure, out, err)
	}

	var warnings int
	switch w.opts.Format {
	case FormatLegacy:
		warnings, err = writeLegacy(out, meta, walked)
	case FormatV2:
		warnings, err = writeFlat(out, meta, walked)
	default:
		skeleton, paths := skeletonEntries(walked)
		warnings, err = writeSidecarTree(out, meta, skeleton, func(index int, _ *types.Entry) ([]byte, error) {
			data, _, rerr := codec.Read(paths[index])
			return data, rerr
		})
	}
	if err != nil {
		return nil, err
	}

	return &types.Result{Metadata: meta, Path: out, Warnings: warnings}, nil
}

// metadataVersion maps a Format to the formatVersion stored in metadata.
// Legacy archives store none.
func metadataVersion(f Format) string {
	switch f {
	case FormatV2:
		return versionV2
	case FormatV3:
		return versionV3
	default:
		return ""
	}
}

// inlineEntries converts walk entries to persisted entries with inline
// content. When speakBase64 is false (legacy), content is stored verbatim
// with no encoding tag; binary detection only happens for v2. Unreadable
// files become empty entries and count toward the returned warning tally.
func inlineEntries(walked []types.WalkEntry, speakBase64 bool) ([]types.Entry, int) {
	entries := make([]types.Entry, 0, len(walked))
	warnings := 0

	for _, we := range walked {
		e := types.Entry{
			Type:         we.Type,
			RelativePath: we.RelativePath,
			Name:         we.Name,
		}
		if we.Type == types.EntryFile {
			e.Size = we.Size
			if speakBase64 {
				payload, enc, err := codec.Encode(we.AbsPath)
				if err != nil {
					warnings++
				}
				e.Content = payload
				e.Encoding = enc
			} else {
				data, _, err := codec.Read(we.AbsPath)
				if err != nil {
					warnings++
				}
				e.Content = string(data)
			}
		}
		entries = append(entries, e)
	}
	return entries, warnings
}

// skeletonEntries converts walk entries to persisted entries without
// content, returning alongside them the source paths of all file entries
// indexed by content ordinal. The walker assigns content indexes
// consecutively in entry order, so appending keeps the alignment.
func skeletonEntries(walked []types.WalkEntry) ([]types.Entry, []string) {
	entries := make([]types.Entry, 0, len(walked))
	var paths []string

	for _, we := range walked {
		e := types.Entry{
			Type:         we.Type,
			RelativePath: we.RelativePath,
			Name:         we.Name,
		}
		if we.Type == types.EntryFile {
			e.Size = we.Size
			paths = append(paths, we.AbsPath)
		}
		entries = append(entries, e)
	}
	return entries, paths
}

// writeLegacy emits the sentinel-wrapped text shape: a comment prologue,
// then the archive JSON between the start and end sentinels. Legacy
// archives never speak base64; content is embedded verbatim.
func writeLegacy(out string, meta types.Metadata, walked []types.WalkEntry) (int, error) {
	entries, warnings := inlineEntries(walked, false)

	doc, err := json.MarshalIndent(types.Archive{Metadata: meta, Entries: entries}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal archive: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", legacyHeader)
	fmt.Fprintf(&buf, "# Generated: %s\n", meta.Timestamp)
	fmt.Fprintf(&buf, "# Source: %s\n", meta.SourceFolder)
	fmt.Fprintf(&buf, "# Files: %d, Directories: %d\n", meta.TotalFiles, meta.TotalDirectories)
	buf.WriteByte('\n')
	buf.WriteString(sentinelStart)
	buf.WriteByte('\n')
	buf.Write(doc)
	buf.WriteByte('\n')
	buf.WriteString(sentinelEnd)
	buf.WriteByte('\n')

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("%w: write %s: %v", types.ErrIOFailure, out, err)
	}
	return warnings, nil
}

// writeFlat emits the v2 shape: one JSON document, metadata plus entries
// with inline content and encoding tags.
func writeFlat(out string, meta types.Metadata, walked []types.WalkEntry) (int, error) {
	entries, warnings := inlineEntries(walked, true)

	doc, err := json.MarshalIndent(types.Archive{Metadata: meta, Entries: entries}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal archive: %w", err)
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		return 0, fmt.Errorf("%w: write %s: %v", types.ErrIOFailure, out, err)
	}
	return warnings, nil
}

// writeSidecarTree emits the v3 shape: a fresh snap directory next to out
// holding metadata.json and one content file per file entry, then the
// reference object at out itself. The reference is written last so a
// readable reference always points at complete sidecar state. A snap
// directory left over from a prior run is replaced wholesale, never merged.
func writeSidecarTree(out string, meta types.Metadata, skeleton []types.Entry, content contentFunc) (int, error) {
	snapDir := filepath.Join(filepath.Dir(out), SnapDirName(out))
	contentDir := filepath.Join(snapDir, contentDirName)

	if err := os.RemoveAll(snapDir); err != nil {
		return 0, fmt.Errorf("%w: clear %s: %v", types.ErrIOFailure, snapDir, err)
	}
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", types.ErrIOFailure, contentDir, err)
	}

	warnings := 0
	index := 0
	entries := make([]types.Entry, 0, len(skeleton))
	for _, e := range skeleton {
		if e.Type == types.EntryFile {
			data, err := content(index, &e)
			if err != nil {
				warnings++
				data = nil
			}
			name := sidecarName(index, e.RelativePath)
			if err := os.WriteFile(filepath.Join(contentDir, name), data, 0o644); err != nil {
				return 0, fmt.Errorf("%w: write content file %s: %v", types.ErrIOFailure, name, err)
			}
			e.Encoding = codec.Detect(data)
			e.Content = ""
			e.ContentFile = name
			index++
		}
		entries = append(entries, e)
	}

	doc, err := json.MarshalIndent(types.Archive{Metadata: meta, Entries: entries}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(snapDir, manifestName), doc, 0o644); err != nil {
		return 0, fmt.Errorf("%w: write manifest: %v", types.ErrIOFailure, err)
	}

	ref := types.Reference{
		Type:          types.ReferenceType,
		SnapDirectory: SnapDirName(out),
		Metadata:      meta,
	}
	refDoc, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal reference: %w", err)
	}
	if err := os.WriteFile(out, refDoc, 0o644); err != nil {
		return 0, fmt.Errorf("%w: write %s: %v", types.ErrIOFailure, out, err)
	}
	return warnings, nil
}
