// Package cmd implements the CLI command structure for todosh.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nkoval/todosh/internal/config"
	"github.com/nkoval/todosh/internal/session"
	"github.com/nkoval/todosh/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todosh CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todosh", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	// Determine the subcommand; the shell is the default.
	subcommand := "shell"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "shell":
		return shellCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// A path to an existing file selects it as the todo file.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			cfg.TodoFile = subcommand
			return shellCommand(ctx, cfg, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// shellCommand opens the session and runs the interactive shell until
// exit. The initial todo file is created when missing; switching to other
// files from inside the shell asks before creating.
func shellCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		cfg.TodoFile = args[0]
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	sess, err := session.New(cfg.TodoFile, true, logger)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.TodoFile, err)
	}

	if err := ui.Run(ctx, cfg, sess); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// newLogger builds the debug logger. Without a configured log file all
// output is discarded.
func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})
	return logger, func() { f.Close() }, nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todosh %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `todosh - interactive todo.txt task manager

Usage:
  todosh [flags] [file]
  todosh version

The shell understands: add, list, complete, remove, switch, help, exit.

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
