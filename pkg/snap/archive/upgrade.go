package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Upgrade reads any readable archive and rewrites it in the v3 shape at
// out. Entry paths, sizes, and the original metadata survive; only the
// format version changes. Content that cannot be recovered from the
// source (a missing sidecar file, a corrupt payload) becomes an empty
// content file and counts toward the warning tally.
func Upgrade(archivePath, out string) (*types.Result, error) {
	src, err := Load(archivePath)
	if err != nil {
		return nil, err
	}

	// Writing v3 replaces the target snap directory wholesale, so the
	// target must not be the directory the source content lives in.
	if src.SidecarDir != "" {
		srcDir, err := filepath.Abs(src.SidecarDir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", src.SidecarDir, err)
		}
		outDir, err := filepath.Abs(filepath.Join(filepath.Dir(out), SnapDirName(out)))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", out, err)
		}
		if srcDir == outDir {
			return nil, fmt.Errorf("%w: upgrade target would overwrite the source snap directory %s", types.ErrInvalidSource, src.SidecarDir)
		}
	}

	meta := src.Archive.Metadata
	meta.FormatVersion = versionV3

	// Entries whose type tag is absent in sloppy legacy documents are
	// files as far as restore is concerned; upgrading canonicalizes them.
	skeleton := make([]types.Entry, 0, len(src.Archive.Entries))
	var files []*types.Entry
	for i := range src.Archive.Entries {
		orig := &src.Archive.Entries[i]
		e := *orig
		if !e.IsDir() {
			e.Type = types.EntryFile
			files = append(files, orig)
		}
		e.Content, e.ContentFile, e.Encoding = "", "", ""
		skeleton = append(skeleton, e)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create parent of %s: %v", types.ErrIOFailure, out, err)
	}

	warnings, err := writeSidecarTree(out, meta, skeleton, func(index int, _ *types.Entry) ([]byte, error) {
		return src.EntryBytes(files[index])
	})
	if err != nil {
		return nil, err
	}
	return &types.Result{Metadata: meta, Path: out, Warnings: warnings}, nil
}
