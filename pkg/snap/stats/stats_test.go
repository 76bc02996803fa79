package stats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/ignore"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

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

func TestCollectMissingFolder(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "absent"), ignore.Options{})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Collect() error = %v, want ErrNotFound", err)
	}
}

func TestCollectCountsAndSizes(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"README.md":               "# hi",
		"src/a.txt":               "hello",
		"node_modules/ignored.js": "skipped",
		".hidden":                 "also skipped",
	})

	s, err := Collect(src, ignore.Options{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if s.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", s.FileCount)
	}
	if s.DirectoryCount != 1 {
		t.Errorf("DirectoryCount = %d, want 1", s.DirectoryCount)
	}
	wantBytes := int64(len("# hi") + len("hello"))
	if s.TotalBytes != wantBytes {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, wantBytes)
	}
	if s.TotalBytesFormatted != "9 Bytes" {
		t.Errorf("TotalBytesFormatted = %q, want %q", s.TotalBytesFormatted, "9 Bytes")
	}
}

func TestCollectIsIdempotent(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":     "aaa",
		"b/c.txt":   "cc",
		"b/d/e.txt": "e",
	})

	first, err := Collect(src, ignore.Options{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	second, err := Collect(src, ignore.Options{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if *first != *second {
		t.Errorf("repeated Collect() differs: %+v vs %+v", first, second)
	}
}

func TestCollectAgreesWithPack(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"kept.txt":       "data",
		"logs/trace.log": "dropped by builtin rule",
		"sub/file.md":    "md",
	})

	opts := ignore.Options{Extra: []string{"sub/**"}}

	s, err := Collect(src, opts)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.snap")
	result, err := archive.NewWriter(archive.WriteOptions{
		Format: archive.FormatV2,
		Ignore: opts,
	}).Write(src, out)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if s.FileCount != result.Metadata.TotalFiles {
		t.Errorf("stats files = %d, pack files = %d", s.FileCount, result.Metadata.TotalFiles)
	}
	if s.DirectoryCount != result.Metadata.TotalDirectories {
		t.Errorf("stats dirs = %d, pack dirs = %d", s.DirectoryCount, result.Metadata.TotalDirectories)
	}
}

func TestCollectHiddenPolicy(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		".env":      "secret",
		"plain.txt": "p",
	})

	excluded, err := Collect(src, ignore.Options{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if excluded.FileCount != 1 {
		t.Errorf("FileCount with hidden excluded = %d, want 1", excluded.FileCount)
	}

	included, err := Collect(src, ignore.Options{IncludeHidden: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if included.FileCount != 2 {
		t.Errorf("FileCount with hidden included = %d, want 2", included.FileCount)
	}
}
