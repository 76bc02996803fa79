//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
)

// Default target when running `stave` with no arguments.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"s": Smoke,
	"c": Clean,
}

const (
	binaryName = "folder-snap"
	mainPkg    = "./cmd/folder-snap"
	binDir     = "bin"
)

// All runs the complete build pipeline.
func All() error {
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Build compiles the folder-snap binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating bin directory: %w", err)
	}

	output := filepath.Join(binDir, binaryName)
	if runtime.GOOS == "windows" {
		output += ".exe"
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", output, mainPkg)
}

// Install installs folder-snap into GOBIN with version info embedded.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", buildLdflags(), mainPkg)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Smoke builds the binary and runs it against this repository: pack to a
// v3 archive, deep-validate the sidecar content, and restore. Exercises
// the three main operations end to end on a real tree.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "folder-snap-smoke-")
	if err != nil {
		return fmt.Errorf("creating smoke directory: %w", err)
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(binDir, binaryName)
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	archive := filepath.Join(dir, "self.snap")
	if err := sh.RunV(bin, "pack", ".", archive); err != nil {
		return fmt.Errorf("smoke pack: %w", err)
	}
	if err := sh.RunV(bin, "validate", "--deep", archive); err != nil {
		return fmt.Errorf("smoke validate: %w", err)
	}
	if err := sh.RunV(bin, "unpack", archive, filepath.Join(dir, "restored")); err != nil {
		return fmt.Errorf("smoke unpack: %w", err)
	}
	return nil
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if st.Verbose() {
		fmt.Printf("Removing %s/\n", binDir)
	}
	return sh.Rm(binDir + "/")
}

// Fmt formats all Go code.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("running gofmt: %w", err)
	}
	return sh.Run("goimports", "-w", ".")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version := "dev"
	commit := "unknown"
	date := time.Now().Format(time.RFC3339)

	if v, err := sh.Output("git", "describe", "--tags", "--always"); err == nil && v != "" {
		version = strings.TrimSpace(v)
	}

	if c, err := sh.Output("git", "rev-parse", "--short", "HEAD"); err == nil && c != "" {
		commit = strings.TrimSpace(c)
	}

	pkg := "github.com/HaiderNakara/folder-snap/cmd/folder-snap"
	return fmt.Sprintf(
		"-X %s.version=%s -X %s.commit=%s -X %s.date=%s",
		pkg, version, pkg, commit, pkg, date,
	)
}
