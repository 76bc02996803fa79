package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

func TestUpgradeFromEachFormat(t *testing.T) {
	files := map[string]string{
		"README.md":    "# doc\n",
		"src/app.go":   "package app\n",
		"data/raw.bin": "head\x00tail",
	}

	for _, format := range []Format{FormatLegacy, FormatV2, FormatV3} {
		t.Run(string(format), func(t *testing.T) {
			src := t.TempDir()
			writeTree(t, src, files)

			work := t.TempDir()
			original := filepath.Join(work, "original.snap")
			packed := pack(t, src, original, format)

			upgraded := filepath.Join(work, "upgraded.snap")
			result, err := Upgrade(original, upgraded)
			require.NoError(t, err)
			assert.Zero(t, result.Warnings)
			assert.Equal(t, "3.0", result.Metadata.FormatVersion)
			assert.Equal(t, packed.Metadata.TotalFiles, result.Metadata.TotalFiles)
			assert.Equal(t, packed.Metadata.TotalDirectories, result.Metadata.TotalDirectories)
			// The original generation timestamp survives the rewrite.
			assert.Equal(t, packed.Metadata.Timestamp, result.Metadata.Timestamp)

			loaded, err := Load(upgraded)
			require.NoError(t, err)
			assert.NotEmpty(t, loaded.SidecarDir)

			restored := filepath.Join(work, "restored")
			_, err = Restore(upgraded, restored)
			require.NoError(t, err)
			assert.Equal(t, files, readTree(t, restored))
		})
	}
}

func TestUpgradeMissingArchive(t *testing.T) {
	dir := t.TempDir()
	_, err := Upgrade(filepath.Join(dir, "absent.snap"), filepath.Join(dir, "out.snap"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpgradeRefusesOverwritingOwnSidecar(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})

	work := t.TempDir()
	original := filepath.Join(work, "archive.snap")
	pack(t, src, original, FormatV3)

	// Same output path means the same snap directory, which the writer
	// would clear before the content could be copied out of it.
	_, err := Upgrade(original, original)
	assert.ErrorIs(t, err, types.ErrInvalidSource)
}

func TestUpgradePreservesEntrySizes(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"blob.bin": "ab\x00cd"})

	work := t.TempDir()
	original := filepath.Join(work, "original.snap")
	pack(t, src, original, FormatV2)

	upgraded := filepath.Join(work, "upgraded.snap")
	_, err := Upgrade(original, upgraded)
	require.NoError(t, err)

	loaded, err := Load(upgraded)
	require.NoError(t, err)
	require.Len(t, loaded.Archive.Entries, 1)
	assert.Equal(t, int64(5), loaded.Archive.Entries[0].Size)
}
