// Package main is the entry point for the rift editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/satwik-kambham/rift/internal/app"
	"github.com/satwik-kambham/rift/internal/config"
	"github.com/satwik-kambham/rift/internal/logging"
	"github.com/satwik-kambham/rift/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	workspace  string
	logLevel   string
	logFile    string
	files      []string
}

func run() int {
	opts := parseFlags()

	logger := buildLogger(opts)

	prefsPath := opts.configPath
	if prefsPath == "" {
		prefsPath = config.DefaultPath()
	}
	prefs, err := config.Load(prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load preferences: %v\n", err)
		return 1
	}

	editor := app.New(logger, prefs, opts.workspace)
	defer editor.Close()

	for _, file := range opts.files {
		if _, err := editor.OpenFile(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open %s: %v\n", file, err)
			return 1
		}
	}
	if len(opts.files) == 0 {
		editor.OpenScratch("")
	}

	ui, err := term.New(logger, editor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		editor.Close()
		os.Exit(1)
	}()

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func buildLogger(opts options) *logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(opts.logLevel)
	logger := logging.New(cfg)

	// Terminal UIs cannot share stderr with the screen; log to a file
	// or not at all.
	if opts.logFile != "" {
		if f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger.SetOutput(f)
			return logger
		}
	}
	logger.Disable()
	return logger
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to preferences file")
	flag.StringVar(&opts.workspace, "workspace", "", "Workspace/project directory")
	flag.StringVar(&opts.workspace, "w", "", "Workspace/project directory (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rift - modal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rift [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("rift %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.files = flag.Args()

	// Default the workspace to the first file's directory.
	if opts.workspace == "" {
		if len(opts.files) > 0 {
			if abs, err := filepath.Abs(opts.files[0]); err == nil {
				opts.workspace = filepath.Dir(abs)
			}
		} else if wd, err := os.Getwd(); err == nil {
			opts.workspace = wd
		}
	}

	return opts
}
