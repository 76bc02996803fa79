package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Report summarizes an archive without restoring anything.
type Report struct {
	Path          string         `json:"path"`
	FormatVersion string         `json:"formatVersion"`
	Metadata      types.Metadata `json:"metadata"`
	EntryCount    int            `json:"entryCount"`

	// Deep reports whether the sidecar audit ran. It only can for v3
	// archives; inline archives have no sidecar state to cross-check.
	Deep           bool     `json:"deep"`
	MissingContent []string `json:"missingContent,omitempty"`
	OrphanContent  []string `json:"orphanContent,omitempty"`
}

// Healthy reports whether the audit found no missing and no orphaned
// content files. Reports without a deep audit are trivially healthy.
func (r *Report) Healthy() bool {
	return len(r.MissingContent) == 0 && len(r.OrphanContent) == 0
}

// Validate parses the archive at archivePath and reports its format
// version and summary counts. With deep set, a v3 archive's content
// directory is additionally cross-checked against its manifest.
func Validate(archivePath string, deep bool) (*Report, error) {
	src, err := Load(archivePath)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Path:          archivePath,
		FormatVersion: src.Archive.Metadata.Version(),
		Metadata:      src.Archive.Metadata,
		EntryCount:    len(src.Archive.Entries),
	}

	if deep && src.SidecarDir != "" {
		if err := auditSidecars(src, r); err != nil {
			return nil, err
		}
		r.Deep = true
	}
	return r, nil
}

// auditSidecars cross-checks the manifest against the content directory:
// every content file the manifest references must exist, and every content
// file present must be referenced. Restore order does not matter here, so
// the directory is walked with fastwalk; its callback runs concurrently
// and the found set is locked.
func auditSidecars(src *Source, r *Report) error {
	referenced := make(map[string]bool)
	for i := range src.Archive.Entries {
		e := &src.Archive.Entries[i]
		if e.IsDir() || e.ContentFile == "" {
			continue
		}
		referenced[e.ContentFile] = true
	}

	contentDir := filepath.Join(src.SidecarDir, contentDirName)
	found := make(map[string]bool)

	if _, err := os.Stat(contentDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: stat %s: %v", types.ErrIOFailure, contentDir, err)
		}
		// No content directory at all: everything referenced is missing.
	} else {
		var mu sync.Mutex
		conf := fastwalk.Config{
			Follow: false,
		}
		err := fastwalk.Walk(&conf, contentDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			mu.Lock()
			found[d.Name()] = true
			mu.Unlock()
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: audit %s: %v", types.ErrIOFailure, contentDir, err)
		}
	}

	for name := range referenced {
		if !found[name] {
			r.MissingContent = append(r.MissingContent, name)
		}
	}
	for name := range found {
		if !referenced[name] {
			r.OrphanContent = append(r.OrphanContent, name)
		}
	}
	sort.Strings(r.MissingContent)
	sort.Strings(r.OrphanContent)
	return nil
}
