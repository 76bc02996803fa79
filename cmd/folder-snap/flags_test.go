package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestIgnoreOptions(t *testing.T) {
	tests := []struct {
		name       string
		setup      func()
		wantHidden bool
		wantRule   string
		wantExtra  int
	}{
		{
			name:  "defaults",
			setup: func() { viper.Reset() },
		},
		{
			name: "include hidden",
			setup: func() {
				viper.Reset()
				viper.Set("include_hidden", true)
			},
			wantHidden: true,
		},
		{
			name: "custom rule file and excludes",
			setup: func() {
				viper.Reset()
				viper.Set("ignore_file", ".snapignore")
				viper.Set("exclude", []string{"*.tmp", "build/**"})
			},
			wantRule:  ".snapignore",
			wantExtra: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			opts := ignoreOptions()
			if opts.IncludeHidden != tt.wantHidden {
				t.Errorf("IncludeHidden = %v, want %v", opts.IncludeHidden, tt.wantHidden)
			}
			if opts.RuleFile != tt.wantRule {
				t.Errorf("RuleFile = %q, want %q", opts.RuleFile, tt.wantRule)
			}
			if len(opts.Extra) != tt.wantExtra {
				t.Errorf("len(Extra) = %d, want %d", len(opts.Extra), tt.wantExtra)
			}
		})
	}
}

func TestDefaultArchivePath(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "simple folder", src: "/home/user/project", want: "project.snap"},
		{name: "trailing separator", src: "/home/user/project/", want: "project.snap"},
		{name: "root", src: "/", want: "folder.snap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultArchivePath(tt.src)
			if got != tt.want {
				t.Errorf("defaultArchivePath(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestUpgradeTargetPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "snap suffix replaced", in: "old.snap", want: "old.v3.snap"},
		{name: "no snap suffix", in: "backup.txt", want: "backup.txt.v3.snap"},
		{name: "path preserved", in: "/data/old.snap", want: "/data/old.v3.snap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := upgradeTargetPath(tt.in)
			if got != tt.want {
				t.Errorf("upgradeTargetPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestArchiveOutputSkip(t *testing.T) {
	out := filepath.Join("/work", "project.snap")
	skip := archiveOutputSkip(out)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "archive file itself", path: "/work/project.snap", want: true},
		{name: "snap directory", path: "/work/project_snap", want: true},
		{name: "file inside snap directory", path: "/work/project_snap/content/content_0_a.bin", want: true},
		{name: "unrelated file", path: "/work/project/main.go", want: false},
		{name: "similar prefix", path: "/work/project_snapshots", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skip(tt.path)
			if got != tt.want {
				t.Errorf("skip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
