// Package stats aggregates a filtered directory tree without writing an
// archive.
package stats

import (
	"github.com/HaiderNakara/folder-snap/pkg/snap/ignore"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
	"github.com/HaiderNakara/folder-snap/pkg/snap/walker"
)

// Collect walks src with the same filtering pack applies and tallies
// entry counts and file sizes, so stats and a subsequent pack of an
// unchanged tree always agree. It fails with types.ErrNotFound when src
// is absent and types.ErrNotDirectory when it is not a directory.
func Collect(src string, opts ignore.Options) (*types.Stats, error) {
	filter, err := ignore.Load(src, opts)
	if err != nil {
		return nil, err
	}

	entries, err := walker.New(filter).Walk(src)
	if err != nil {
		return nil, err
	}

	s := &types.Stats{}
	for _, e := range entries {
		if e.Type == types.EntryDirectory {
			s.DirectoryCount++
		} else {
			s.FileCount++
			s.TotalBytes += e.Size
		}
	}
	s.TotalBytesFormatted = types.FormatSize(s.TotalBytes)
	return s, nil
}
