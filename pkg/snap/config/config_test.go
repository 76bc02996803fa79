package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", cfg.Format, DefaultFormat)
	}
	if cfg.IgnoreFile != DefaultIgnoreFile {
		t.Errorf("IgnoreFile = %q, want %q", cfg.IgnoreFile, DefaultIgnoreFile)
	}
	if cfg.IncludeHidden {
		t.Error("IncludeHidden should default to false")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
	if cfg.History.RetentionDays != DefaultRetentionDays {
		t.Errorf("History.RetentionDays = %d, want %d", cfg.History.RetentionDays, DefaultRetentionDays)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Watch.Debounce = %v, want 2s", cfg.Watch.Debounce)
	}
}

func TestLoadFromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "folder-snap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	content := `format: v2
include_hidden: true
exclude:
  - "*.tmp"
  - "build/**"
history:
  enabled: false
  retention_days: 7
watch:
  debounce: 5s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Format != "v2" {
		t.Errorf("Format = %q, want %q", cfg.Format, "v2")
	}
	if !cfg.IncludeHidden {
		t.Error("IncludeHidden should be true")
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("len(Exclude) = %d, want 2", len(cfg.Exclude))
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should be false")
	}
	if cfg.History.RetentionDays != 7 {
		t.Errorf("History.RetentionDays = %d, want 7", cfg.History.RetentionDays)
	}
	if cfg.Watch.Debounce != 5*time.Second {
		t.Errorf("Watch.Debounce = %v, want 5s", cfg.Watch.Debounce)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FOLDER_SNAP_FORMAT", "legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "legacy" {
		t.Errorf("Format = %q, want %q from environment", cfg.Format, "legacy")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~/archives", want: filepath.Join(home, "archives")},
		{in: "/absolute/path", want: "/absolute/path"},
		{in: "relative/path", want: "relative/path"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
