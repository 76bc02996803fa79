package walker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// writeTree creates the given files (path -> content) under root,
// creating parent directories as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := New(nil).Walk(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Walk() error = %v, want ErrNotFound", err)
	}
}

func TestWalkFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := New(nil).Walk(file)
	if !errors.Is(err, types.ErrNotDirectory) {
		t.Errorf("Walk() error = %v, want ErrNotDirectory", err)
	}
}

func TestWalkPreOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":        "# hi",
		"src/a.txt":        "hello",
		"src/deep/b.txt":   "world",
		"src/deep/c.txt":   "again",
		"other/leaf.txt":   "leaf",
		"other/inner/d.go": "package d",
	})

	entries, err := New(nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	// Every directory must precede every entry whose path it prefixes.
	position := make(map[string]int, len(entries))
	for i, e := range entries {
		position[e.RelativePath] = i
	}
	for _, e := range entries {
		if e.Type != types.EntryDirectory {
			continue
		}
		prefix := e.RelativePath + "/"
		for _, other := range entries {
			if strings.HasPrefix(other.RelativePath, prefix) && position[other.RelativePath] < position[e.RelativePath] {
				t.Errorf("entry %q precedes its parent directory %q", other.RelativePath, e.RelativePath)
			}
		}
	}

	var dirs, files int
	for _, e := range entries {
		if e.Type == types.EntryDirectory {
			dirs++
		} else {
			files++
		}
	}
	if files != 6 {
		t.Errorf("file entries = %d, want 6", files)
	}
	if dirs != 4 {
		t.Errorf("directory entries = %d, want 4 (src, src/deep, other, other/inner)", dirs)
	}
}

func TestWalkContentIndexes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":     "one",
		"sub/b.txt": "two",
		"sub/c.txt": "three",
	})

	entries, err := New(nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	// File content indexes are consecutive in entry order; directories
	// carry -1.
	next := 0
	for _, e := range entries {
		switch e.Type {
		case types.EntryDirectory:
			if e.ContentIndex != -1 {
				t.Errorf("directory %q ContentIndex = %d, want -1", e.RelativePath, e.ContentIndex)
			}
		case types.EntryFile:
			if e.ContentIndex != next {
				t.Errorf("file %q ContentIndex = %d, want %d", e.RelativePath, e.ContentIndex, next)
			}
			next++
		}
	}
	if next != 3 {
		t.Errorf("file entries = %d, want 3", next)
	}
}

func TestWalkSizes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.txt": "abc",
		"empty.txt": "",
	})

	entries, err := New(nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	sizes := make(map[string]int64)
	for _, e := range entries {
		if e.Type == types.EntryFile {
			sizes[e.RelativePath] = e.Size
		}
	}
	if sizes["small.txt"] != 3 {
		t.Errorf("small.txt size = %d, want 3", sizes["small.txt"])
	}
	if sizes["empty.txt"] != 0 {
		t.Errorf("empty.txt size = %d, want 0", sizes["empty.txt"])
	}
}

// prefixMatcher excludes any path whose first segment equals the name.
type prefixMatcher struct{ name string }

func (m prefixMatcher) Match(relPath string, _ bool) bool {
	return relPath == m.name || strings.HasPrefix(relPath, m.name+"/")
}

func TestWalkFilterSkipsSubtree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt":              "keep",
		"skipme/ignored.js":     "nope",
		"skipme/deep/hidden.js": "nope",
	})

	entries, err := New(prefixMatcher{name: "skipme"}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.RelativePath, "skipme") {
			t.Errorf("filtered subtree leaked entry %q", e.RelativePath)
		}
	}
	if len(entries) != 1 || entries[0].RelativePath != "keep.txt" {
		t.Errorf("entries = %v, want only keep.txt", entries)
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real.txt": "data"})

	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	entries, err := New(nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	for _, e := range entries {
		if e.Name == "link.txt" {
			t.Error("symlink should not be archived")
		}
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestWalkEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	entries, err := New(nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Type != types.EntryDirectory || entries[0].RelativePath != "empty" {
		t.Errorf("entry = %+v, want empty directory record", entries[0])
	}
}
