package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HaiderNakara/folder-snap/pkg/snap/config"
	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
	"github.com/HaiderNakara/folder-snap/pkg/snap/output"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "folder-snap",
		Short: "Archive a folder into a portable snapshot and restore it",
		Long: `Folder-snap serializes a directory tree (files, subdirectories, and
contents) into a single portable representation and reconstructs an
equivalent tree from it. Ignore rules filter what gets archived, and
binary content survives the trip byte for byte.

Examples:
  folder-snap pack ./project              # Archive to project.snap (v3)
  folder-snap pack -f v2 ./project out.snap
  folder-snap unpack project.snap ./restored
  folder-snap stats ./project             # Counts and sizes, no archive
  folder-snap validate project.snap       # Metadata check, no restore
  folder-snap upgrade old.snap            # Rewrite any archive as v3
  folder-snap watch ./project             # Re-pack on every change burst
  folder-snap history                     # Past operations`,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/folder-snap/config.yaml)")
	rootCmd.PersistentFlags().Bool("include-hidden", false, "archive hidden files and directories")
	rootCmd.PersistentFlags().String("ignore-file", "", "ignore rule file name resolved at the source root (default: .gitignore)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "extra exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: pretty, plain, json, yaml")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("include_hidden", rootCmd.PersistentFlags().Lookup("include-hidden"))
	_ = viper.BindPFlag("ignore_file", rootCmd.PersistentFlags().Lookup("ignore-file"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if err := loadConfigInto(viper.GetViper(), cfgFile); err != nil {
		printError("%v", err)
	}

	if err := initLogging(); err != nil {
		printError("Failed to initialize logging: %v", err)
	}
}

// loadConfigInto points v at the config file (an explicit path from
// --config, or the default search locations), binds the environment, sets
// defaults, and reads the file. A missing config at the default locations
// is fine; an explicitly named file that cannot be read is an error.
func loadConfigInto(v *viper.Viper, explicit string) error {
	if explicit != "" {
		// Use config file from the flag
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "folder-snap"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "folder-snap"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	v.SetEnvPrefix("FOLDER_SNAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Set defaults from config package
	config.SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if explicit != "" {
			return fmt.Errorf("failed to read config file %s: %w", explicit, err)
		}
		// Defaults apply when no config file exists at the default
		// locations.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		_ = logging.Close()
	}()
	return rootCmd.Execute()
}

// renderReport formats a report with the configured formatter and prints
// it, unless quiet mode is on.
func renderReport(r *output.Report) error {
	if getQuiet() {
		return nil
	}

	name := viper.GetString("output")
	if name == "" {
		name = config.DefaultOutput
	}

	formatter, err := output.Get(name)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())
	return nil
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
