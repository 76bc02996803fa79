package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsVersion(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a", "sub/b.txt": "b"})

	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatLegacy, want: "legacy"},
		{format: FormatV2, want: "2.0"},
		{format: FormatV3, want: "3.0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.snap")
			pack(t, src, out, tt.format)

			report, err := Validate(out, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.FormatVersion)
			assert.Equal(t, 2, report.Metadata.TotalFiles)
			assert.Equal(t, 1, report.Metadata.TotalDirectories)
			assert.Equal(t, 3, report.EntryCount)
			assert.False(t, report.Deep)
			assert.True(t, report.Healthy())
		})
	}
}

func TestValidateDeepHealthy(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a", "b.txt": "b"})

	out := filepath.Join(t.TempDir(), "out.snap")
	pack(t, src, out, FormatV3)

	report, err := Validate(out, true)
	require.NoError(t, err)
	assert.True(t, report.Deep)
	assert.True(t, report.Healthy())
	assert.Empty(t, report.MissingContent)
	assert.Empty(t, report.OrphanContent)
}

func TestValidateDeepFindsMissingAndOrphans(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a", "b.txt": "b"})

	work := t.TempDir()
	out := filepath.Join(work, "out.snap")
	pack(t, src, out, FormatV3)

	contentDir := filepath.Join(work, SnapDirName(out), contentDirName)

	// Remove one referenced file, plant one unreferenced file.
	loaded, err := Load(out)
	require.NoError(t, err)
	var victim string
	for _, e := range loaded.Archive.Entries {
		if e.Name == "a.txt" {
			victim = e.ContentFile
		}
	}
	require.NotEmpty(t, victim)
	require.NoError(t, os.Remove(filepath.Join(contentDir, victim)))
	orphan := "content_99_stray.bin"
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, orphan), []byte("stray"), 0o644))

	report, err := Validate(out, true)
	require.NoError(t, err)
	assert.True(t, report.Deep)
	assert.False(t, report.Healthy())
	assert.Equal(t, []string{victim}, report.MissingContent)
	assert.Equal(t, []string{orphan}, report.OrphanContent)
}

func TestValidateDeepInlineArchiveIsShallow(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})

	out := filepath.Join(t.TempDir(), "out.snap")
	pack(t, src, out, FormatV2)

	// Inline archives have no sidecar state; --deep degrades gracefully.
	report, err := Validate(out, true)
	require.NoError(t, err)
	assert.False(t, report.Deep)
	assert.True(t, report.Healthy())
}

func TestValidateDeepMissingContentDirectory(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})

	work := t.TempDir()
	out := filepath.Join(work, "out.snap")
	pack(t, src, out, FormatV3)

	require.NoError(t, os.RemoveAll(filepath.Join(work, SnapDirName(out), contentDirName)))

	report, err := Validate(out, true)
	require.NoError(t, err)
	assert.False(t, report.Healthy())
	assert.Len(t, report.MissingContent, 1)
}
