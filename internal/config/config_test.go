// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.TodoDir != DefaultTodoDir {
		t.Errorf("TodoDir: got %q, want %q", cfg.TodoDir, DefaultTodoDir)
	}
	if cfg.Extension != DefaultExtension {
		t.Errorf("Extension: got %q, want %q", cfg.Extension, DefaultExtension)
	}
	if cfg.NoColor {
		t.Error("NoColor: got true, want false")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "todosh.toml")
	content := `todo_file = "work.txt"
todo_dir = "lists"
no_color = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, path); err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}

	if cfg.TodoFile != "work.txt" {
		t.Errorf("TodoFile: got %q, want work.txt", cfg.TodoFile)
	}
	if cfg.TodoDir != "lists" {
		t.Errorf("TodoDir: got %q, want lists", cfg.TodoDir)
	}
	if !cfg.NoColor {
		t.Error("NoColor: got false, want true")
	}
	// Untouched fields keep their defaults.
	if cfg.Extension != DefaultExtension {
		t.Errorf("Extension: got %q, want %q", cfg.Extension, DefaultExtension)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOSH_FILE", "env.txt")
	t.Setenv("TODOSH_NO_COLOR", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.TodoFile != "env.txt" {
		t.Errorf("TodoFile: got %q, want env.txt", cfg.TodoFile)
	}
	if !cfg.NoColor {
		t.Error("NoColor: got false, want true")
	}
}

func TestFlagsOverride(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := parseFlags(cfg, fs, []string{"-file", "flag.txt", "-ext", "todo"}); err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	finalize(cfg)

	if cfg.TodoFile != "flag.txt" {
		t.Errorf("TodoFile: got %q, want flag.txt", cfg.TodoFile)
	}
	// finalize normalizes a bare extension.
	if cfg.Extension != ".todo" {
		t.Errorf("Extension: got %q, want .todo", cfg.Extension)
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "Yes", " on "} {
		if !boolFromString(v) {
			t.Errorf("boolFromString(%q): got false, want true", v)
		}
	}
	for _, v := range []string{"0", "false", "no", "", "off"} {
		if boolFromString(v) {
			t.Errorf("boolFromString(%q): got true, want false", v)
		}
	}
}
