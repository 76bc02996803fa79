package main

import (
	"strconv"
	"strings"

	"github.com/HaiderNakara/folder-snap/pkg/snap/config"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
)

// initLogging wires the logging system to the loaded configuration.
// Console echo is at warn level normally, debug with --verbose, and off
// with --quiet.
func initLogging() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if getVerbose() {
		level = "debug"
	}

	consoleLevel := "warn"
	switch {
	case getQuiet():
		consoleLevel = ""
	case getVerbose():
		consoleLevel = "debug"
	}

	return logging.Init(logging.Config{
		Level:        level,
		Path:         cfg.Logging.Path,
		Rotation:     parseRotationConfig(cfg.Logging.Rotation),
		Components:   cfg.Logging.Components,
		ConsoleLevel: consoleLevel,
	})
}

// parseRotationConfig converts the string-based config rotation section to
// the byte-based logging one. Unparseable sizes fall back to the default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}

	size, err := parseLogSize(rc.MaxSize)
	if err != nil || size <= 0 {
		size = logging.DefaultRotationConfig().MaxSize
	}
	out.MaxSize = size
	return out
}

// parseLogSize parses sizes like "10MB", "1G", or "512K" into bytes using
// 1024-based units.
func parseLogSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, strconv.ErrSyntax
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"), strings.HasSuffix(s, "G"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "G")
	case strings.HasSuffix(s, "MB"), strings.HasSuffix(s, "M"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "M")
	case strings.HasSuffix(s, "KB"), strings.HasSuffix(s, "K"):
		multiplier = 1024
		s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "K")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return value * multiplier, nil
}
