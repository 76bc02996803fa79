package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/HaiderNakara/folder-snap/pkg/snap/config"
	"github.com/HaiderNakara/folder-snap/pkg/snap/ignore"
)

// ignoreOptions builds the ignore filter options from CLI flags and config.
func ignoreOptions() ignore.Options {
	return ignore.Options{
		IncludeHidden: viper.GetBool("include_hidden"),
		RuleFile:      viper.GetString("ignore_file"),
		Extra:         viper.GetStringSlice("exclude"),
	}
}

// resolveDir expands and absolutizes a directory argument.
func resolveDir(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}

// defaultArchivePath derives the archive path for a source folder when
// none is given: the folder's base name plus ".snap" in the working
// directory.
func defaultArchivePath(src string) string {
	base := filepath.Base(src)
	if base == "." || base == string(filepath.Separator) {
		base = "folder"
	}
	return base + ".snap"
}

// upgradeTargetPath derives the upgrade output path when none is given:
// the input with any ".snap" suffix replaced by ".v3.snap", next to the
// input.
func upgradeTargetPath(in string) string {
	return strings.TrimSuffix(in, ".snap") + ".v3.snap"
}

// archiveSize returns the on-disk size of a written archive file, zero if
// it cannot be measured.
func archiveSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
