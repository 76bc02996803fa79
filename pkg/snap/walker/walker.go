// Package walker enumerates a directory tree into an ordered entry list.
// Entries come out in pre-order: each directory precedes everything below
// it, so a restore can create directories before their contents. Children
// are visited in raw directory-listing order, unsorted, to keep archives
// byte-stable with what the listing API reports.
package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Matcher reports whether a relative path is excluded from the walk.
// The ignore filter satisfies this.
type Matcher interface {
	Match(relPath string, isDir bool) bool
}

// Walker traverses a directory tree, filtered by a Matcher.
type Walker struct {
	filter Matcher
}

// New creates a Walker using the given filter. A nil filter excludes
// nothing.
func New(filter Matcher) *Walker {
	return &Walker{filter: filter}
}

// Walk enumerates root and returns its filtered entries in pre-order.
// It fails with types.ErrNotFound when root does not exist and
// types.ErrNotDirectory when it is not a directory. The walk reads
// metadata only; file content is attached later by the caller.
func (w *Walker) Walk(root string) ([]types.WalkEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotDirectory, root)
	}

	var entries []types.WalkEntry
	fileCount := 0
	entries, err = w.walkDir(root, "", entries, &fileCount)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// walkDir appends the filtered children of one directory, recursing into
// subdirectories immediately after their own entry.
func (w *Walker) walkDir(absDir, relDir string, entries []types.WalkEntry, fileCount *int) ([]types.WalkEntry, error) {
	children, err := listDir(absDir)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		name := child.Name()
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}
		absPath := filepath.Join(absDir, name)
		isDir := child.IsDir()

		if w.filter != nil && w.filter.Match(relPath, isDir) {
			continue
		}

		switch {
		case isDir:
			entries = append(entries, types.WalkEntry{
				Type:         types.EntryDirectory,
				RelativePath: relPath,
				Name:         name,
				AbsPath:      absPath,
				ContentIndex: -1,
			})
			entries, err = w.walkDir(absPath, relPath, entries, fileCount)
			if err != nil {
				return nil, err
			}

		case child.Type().IsRegular():
			var size int64
			if info, err := child.Info(); err == nil {
				size = info.Size()
			}
			entries = append(entries, types.WalkEntry{
				Type:         types.EntryFile,
				RelativePath: relPath,
				Name:         name,
				Size:         size,
				AbsPath:      absPath,
				ContentIndex: *fileCount,
			})
			*fileCount++
		}
		// Symlinks and other special files are not archived.
	}

	return entries, nil
}

// listDir returns a directory's children in raw listing order.
// os.ReadDir sorts lexically, so the lower-level File.ReadDir is used.
func listDir(dir string) ([]os.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	defer f.Close()

	children, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return children, nil
}
