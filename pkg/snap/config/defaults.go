// Package config provides configuration management for folder-snap.
package config

// Default configuration values for folder-snap.
const (
	// DefaultFormat is the archive format produced when none is selected.
	DefaultFormat = "v3"

	// DefaultIgnoreFile is the rule file looked up at the root of the
	// folder being processed.
	DefaultIgnoreFile = ".gitignore"

	// DefaultRetentionDays is the default number of days to retain
	// history records.
	DefaultRetentionDays = 30

	// DefaultWatchDebounce is the default settle time between a change
	// burst and the re-pack it triggers.
	DefaultWatchDebounce = "2s"

	// DefaultOutput is the default presentation format for command
	// results.
	DefaultOutput = "pretty"
)
