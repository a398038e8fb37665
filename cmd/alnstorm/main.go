// Package main is the entry point for the alnstorm alignment editor.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/alnstorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
	wrap       bool
	wrapWidth  int
	gapChar    string
	settings   []string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "alnstorm [flags] NAME=RESIDUES...",
		Short: "Edit gaps in a multiple sequence alignment",
		Long: `alnstorm shows an alignment in the terminal and edits its gaps.

Shift-drag inserts or deletes gaps in one sequence, Ctrl- or Alt-drag
in the selected group. Keys: arrows move, space inserts gaps, Backspace
deletes them, u and r undo and redo, w toggles wrapping, q quits.`,
		Example: `  alnstorm seq1=AC--GT seq2=ACGTAC
  alnstorm --wrap --wrap-width 60 seq1=ACGT seq2=A-GT
  alnstorm --set mouse.autoscrollInterval=20ms seq1=ACGT`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd, flags, args)
			if err != nil {
				return err
			}
			return run(opts, flags.logFile)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "path to a settings file (.toml, .yaml)")
	f.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	f.BoolVarP(&flags.wrap, "wrap", "w", false, "wrap the alignment into bands")
	f.IntVar(&flags.wrapWidth, "wrap-width", 0, "band width in columns, 0 fits the window")
	f.StringVar(&flags.gapChar, "gap", "", `gap character to insert ("-", "." or " ")`)
	f.StringArrayVar(&flags.settings, "set", nil, "override a setting, as path=value")

	cmd.AddCommand(newSettingsCmd())
	return cmd
}

func buildOptions(cmd *cobra.Command, flags rootFlags, args []string) (app.Options, error) {
	opts := app.Options{
		ConfigPath: flags.configPath,
		Overrides:  make(map[string]any),
	}

	switch flags.logLevel {
	case "", "debug", "info", "warn", "error":
		opts.LogLevel = flags.logLevel
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", flags.logLevel)
	}

	for _, arg := range args {
		seq, err := app.ParseSequence(arg)
		if err != nil {
			return opts, fmt.Errorf("%q: %w", arg, err)
		}
		opts.Sequences = append(opts.Sequences, seq)
	}

	overrides, err := parseSettings(flags.settings)
	if err != nil {
		return opts, err
	}
	opts.Overrides = overrides

	// Explicit flags win over --set.
	if cmd.Flags().Changed("wrap") {
		opts.Overrides["view.wrap"] = flags.wrap
	}
	if cmd.Flags().Changed("wrap-width") {
		opts.Overrides["view.wrapWidth"] = flags.wrapWidth
	}
	if cmd.Flags().Changed("gap") {
		opts.Overrides["editor.gapChar"] = flags.gapChar
	}
	return opts, nil
}

func run(opts app.Options, logFile string) error {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		opts.LogOutput = f
	}

	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	return application.Run()
}
