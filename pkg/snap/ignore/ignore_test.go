package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFilter(t *testing.T, root string, opts Options) *Filter {
	t.Helper()
	f, err := Load(root, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return f
}

func TestBuiltinRules(t *testing.T) {
	f := loadFilter(t, t.TempDir(), Options{})

	tests := []struct {
		name    string
		relPath string
		isDir   bool
		want    bool
	}{
		{name: "node_modules directory", relPath: "node_modules", isDir: true, want: true},
		{name: "nested node_modules", relPath: "web/node_modules", isDir: true, want: true},
		{name: "venv directory", relPath: "venv", isDir: true, want: true},
		{name: "git directory", relPath: ".git", isDir: true, want: true},
		{name: "log file", relPath: "debug.log", isDir: false, want: true},
		{name: "nested log file", relPath: "logs/old/debug.log", isDir: false, want: true},
		{name: "DS_Store", relPath: ".DS_Store", isDir: false, want: true},
		{name: "Thumbs.db", relPath: "Thumbs.db", isDir: false, want: true},
		{name: "ordinary source file", relPath: "src/main.go", isDir: false, want: false},
		{name: "ordinary directory", relPath: "src", isDir: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Match(tt.relPath, tt.isDir); got != tt.want {
				t.Errorf("Match(%q, %v) = %v, want %v", tt.relPath, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestHiddenPolicy(t *testing.T) {
	root := t.TempDir()

	hidden := loadFilter(t, root, Options{})
	if !hidden.Match(".env", false) {
		t.Error("hidden file should be excluded by default")
	}
	if !hidden.Match("config/.secrets", true) {
		t.Error("hidden directory should be excluded by default")
	}
	if hidden.Match("src/main.go", false) {
		t.Error("visible file should not be excluded")
	}

	included := loadFilter(t, root, Options{IncludeHidden: true})
	if included.Match(".env", false) {
		t.Error("hidden file should be kept with IncludeHidden")
	}
	// Built-in rules still apply regardless of the hidden policy.
	if !included.Match(".git", true) {
		t.Error(".git should stay excluded even with IncludeHidden")
	}
	if !included.Match(".DS_Store", false) {
		t.Error(".DS_Store should stay excluded even with IncludeHidden")
	}
}

func TestRuleFile(t *testing.T) {
	root := t.TempDir()
	rules := "# build output\ndist/\n*.tmp\n\nsecret.txt\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(rules), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	f := loadFilter(t, root, Options{})

	if !f.Match("dist", true) {
		t.Error("dist/ directory should match rule file")
	}
	if f.Match("dist", false) {
		t.Error("directory-only rule should not match a file named dist")
	}
	if !f.Match("cache/a.tmp", false) {
		t.Error("*.tmp should match nested tmp files")
	}
	if !f.Match("secret.txt", false) {
		t.Error("secret.txt should match rule file")
	}
	if f.Match("public.txt", false) {
		t.Error("unrelated file should not match")
	}
}

func TestRuleFileNegation(t *testing.T) {
	root := t.TempDir()
	rules := "*.log\n!keep.log\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(rules), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	f := loadFilter(t, root, Options{})

	if !f.Match("debug.log", false) {
		t.Error("debug.log should stay excluded")
	}
	if f.Match("keep.log", false) {
		t.Error("keep.log should be re-included by the later negation rule")
	}
}

func TestCustomRuleFileName(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".snapignore"), []byte("private/\n"), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	f := loadFilter(t, root, Options{RuleFile: ".snapignore"})
	if !f.Match("private", true) {
		t.Error("rule from custom rule file should apply")
	}

	// The default name is not consulted when another is configured.
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("other/\n"), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}
	f = loadFilter(t, root, Options{RuleFile: ".snapignore"})
	if f.Match("other", true) {
		t.Error("default rule file should be ignored when a custom name is set")
	}
}

func TestMissingRuleFile(t *testing.T) {
	f := loadFilter(t, t.TempDir(), Options{})

	if f.RuleCount() != len(builtinRules) {
		t.Errorf("RuleCount() = %d, want %d built-ins only", f.RuleCount(), len(builtinRules))
	}
}

func TestExtraPatterns(t *testing.T) {
	f := loadFilter(t, t.TempDir(), Options{Extra: []string{"*.bak", "build/**"}})

	if !f.Match("old.bak", false) {
		t.Error("*.bak extra pattern should match")
	}
	if !f.Match("build/out/app", false) {
		t.Error("build/** extra pattern should match nested paths")
	}
	if f.Match("src/app.go", false) {
		t.Error("unrelated path should not match extra patterns")
	}
}

func TestInvalidExtraPattern(t *testing.T) {
	_, err := Load(t.TempDir(), Options{Extra: []string{"[unclosed"}})
	if err == nil {
		t.Error("Load() should fail on an invalid extra pattern")
	}
}
