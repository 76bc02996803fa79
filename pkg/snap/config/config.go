package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// HistoryConfig configures the operation history journal.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"` // Journal directory (XDG data dir if empty)
	RetentionDays int    `mapstructure:"retention_days"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	Format        string        `mapstructure:"format"`
	IgnoreFile    string        `mapstructure:"ignore_file"`
	IncludeHidden bool          `mapstructure:"include_hidden"`
	Exclude       []string      `mapstructure:"exclude"`
	Output        string        `mapstructure:"output"`
	History       HistoryConfig `mapstructure:"history"`
	Logging       LoggingConfig `mapstructure:"logging"`
	Watch         WatchConfig   `mapstructure:"watch"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/folder-snap/config.yaml
//   - $HOME/.config/folder-snap/config.yaml
//
// Environment variables are prefixed with FOLDER_SNAP_
// (e.g., FOLDER_SNAP_FORMAT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "folder-snap"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "folder-snap"))

	v.SetEnvPrefix("FOLDER_SNAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// A missing config file is fine; defaults apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.History.Path, "~") {
		cfg.History.Path = filepath.Join(homeDir, cfg.History.Path[1:])
	}

	return &cfg, nil
}

// SetDefaults registers every configuration default on the given viper
// instance. The root command shares this with Load so flag-bound and
// file-loaded configuration agree.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("ignore_file", DefaultIgnoreFile)
	v.SetDefault("include_hidden", false)
	v.SetDefault("exclude", []string{})
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "") // Empty means DefaultHistoryPath
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means the XDG state dir
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"archive": "info",
		"walker":  "info",
		"history": "warn",
		"watch":   "info",
	})

	v.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "folder-snap"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "folder-snap"), nil
}

// DataDir returns $XDG_DATA_HOME/folder-snap/ for the history journal.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "folder-snap")
}

// StateDir returns $XDG_STATE_HOME/folder-snap/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "folder-snap")
}

// DefaultHistoryPath returns the default history journal directory.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "folder-snap.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}
