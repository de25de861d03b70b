// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTodoFile  = "todo.txt"
	DefaultTodoDir   = "."
	DefaultExtension = ".txt"
)

// Config holds the full configuration for todosh.
type Config struct {
	// TodoFile is the backing file opened at startup.
	TodoFile string `toml:"todo_file"`
	// TodoDir is the directory the switch picker scans.
	TodoDir string `toml:"todo_dir"`
	// Extension filters the files offered by the switch picker.
	Extension string `toml:"extension"`
	// NoColor downgrades all output to plain text.
	NoColor bool `toml:"no_color"`
	// LogFile enables debug logging to the given path. Empty disables it.
	LogFile string `toml:"log_file"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (TOML)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	configFile := findConfigFile()
	if configFile != "" {
		if err := loadConfigFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalize(cfg)
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TodoFile = DefaultTodoFile
	cfg.TodoDir = DefaultTodoDir
	cfg.Extension = DefaultExtension
}

// findConfigFile looks for a config file in the current directory.
func findConfigFile() string {
	names := []string{"todosh.toml", ".todosh.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOSH_FILE"); v != "" {
		cfg.TodoFile = v
	}
	if v := os.Getenv("TODOSH_DIR"); v != "" {
		cfg.TodoDir = v
	}
	if v := os.Getenv("TODOSH_EXT"); v != "" {
		cfg.Extension = v
	}
	if v := os.Getenv("TODOSH_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
	if v := os.Getenv("TODOSH_LOG"); v != "" {
		cfg.LogFile = v
	}
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todosh", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TodoFile, "file", cfg.TodoFile, "Path to the todo.txt file")
	fs.StringVar(&cfg.TodoDir, "dir", cfg.TodoDir, "Directory scanned by the switch picker")
	fs.StringVar(&cfg.Extension, "ext", cfg.Extension, "File extension offered by the switch picker")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write a debug log to this file")

	return fs.Parse(args)
}

// finalize expands ~ in configured paths.
func finalize(cfg *Config) {
	cfg.TodoFile = expandPath(cfg.TodoFile)
	cfg.TodoDir = expandPath(cfg.TodoDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return home
	}
	return p
}
