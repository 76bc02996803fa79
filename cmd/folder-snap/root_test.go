package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigIntoDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	if err := loadConfigInto(v, ""); err != nil {
		t.Fatalf("loadConfigInto() error = %v, missing default config should be silent", err)
	}

	if got := v.GetString("format"); got != "v3" {
		t.Errorf("format = %q, want default %q", got, "v3")
	}
}

func TestLoadConfigIntoExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("format: legacy\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	if err := loadConfigInto(v, path); err != nil {
		t.Fatalf("loadConfigInto() error = %v", err)
	}

	if got := v.GetString("format"); got != "legacy" {
		t.Errorf("format = %q, want %q from explicit file", got, "legacy")
	}
}

func TestLoadConfigIntoExplicitFileMissing(t *testing.T) {
	v := viper.New()
	err := loadConfigInto(v, filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("loadConfigInto() with a missing explicit file should fail")
	}
}

func TestLoadConfigIntoExplicitFileUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("format: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	if err := loadConfigInto(v, path); err == nil {
		t.Fatal("loadConfigInto() with an unparseable explicit file should fail")
	}
}
