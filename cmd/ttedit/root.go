package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/ttedit/internal/app"
)

// usageError is returned for a missing or extra file argument.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
	debug      bool
	script     string
	noWatch    bool
	readOnly   bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "ttedit [flags] <file>",
		Short: "Line editor that records every edit on a timeline",
		Long: `ttedit edits a text file one line at a time. Every change is recorded as a
snapshot on a timeline, and any earlier state can be previewed, compared,
played back or checked out as a new head.

Examples:
  ttedit notes.txt                      # Edit notes.txt
  ttedit -R notes.txt                   # Browse the history without editing
  ttedit --script fix.lua notes.txt     # Run a Lua script, then the shell
  ttedit --debug --log-file tt.log f    # Write debug logs to tt.log`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: "Usage: " + cmd.UseLine()}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "",
		"Path to configuration file (.toml, .yaml)")
	f.StringVar(&flags.logLevel, "log-level", "",
		"Log level (debug, info, warn, error, off)")
	f.StringVar(&flags.logFile, "log-file", "",
		"Write logs to this file instead of stderr")
	f.BoolVarP(&flags.debug, "debug", "d", false,
		"Enable debug logging")
	f.StringVarP(&flags.script, "script", "s", "",
		"Lua script to run before the shell starts")
	f.BoolVar(&flags.noWatch, "no-watch", false,
		"Do not watch the file for external changes")
	f.BoolVarP(&flags.readOnly, "readonly", "R", false,
		"Open the file read-only")

	return cmd
}

func runEditor(cmd *cobra.Command, path string, flags rootFlags) error {
	opts := app.Options{
		Path:       expandPath(path),
		ConfigPath: optionalPath(flags.configPath),
		LogLevel:   flags.logLevel,
		LogFile:    optionalPath(flags.logFile),
		Debug:      flags.debug,
		Script:     optionalPath(flags.script),
		NoWatch:    flags.noWatch,
		ReadOnly:   flags.readOnly,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}

	application, err := app.New(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(cmd.Context())
}

func optionalPath(path string) string {
	if path == "" {
		return ""
	}
	return expandPath(path)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
