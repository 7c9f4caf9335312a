package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errCanceled is returned when the picker is closed without a selection
var errCanceled = errors.New("selection canceled")

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath       string
	optionsPath      string
	dbPath           string
	logPath          string
	multi            bool
	groupSelect      bool
	allowNoHighlight bool
	saveConfig       bool
	debug            bool
}

func main() {
	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	closeLog()

	switch {
	case errors.Is(err, errCanceled):
		os.Exit(130)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "combobox",
		Short:         "Pick options from a filterable list",
		Long:          "combobox shows a filterable option menu and prints the values of the selected options, one per line.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logPath, opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/combobox/config.toml)")
	pf.StringVar(&opts.optionsPath, "options", "", "TOML file with an [[options]] array")
	pf.StringVar(&opts.dbPath, "db", "", "SQLite option database")
	pf.StringVar(&opts.logPath, "log", "combobox.log", "Log file")
	pf.BoolVar(&opts.debug, "debug", false, "Log debug messages")
	pf.BoolVar(&opts.multi, "multi", false, "Allow selecting several options")
	pf.BoolVar(&opts.groupSelect, "group-select", false, "Allow selecting groups")
	pf.BoolVar(&opts.allowNoHighlight, "allow-no-highlight", false, "Allow the highlight to rest on nothing")

	rootCmd.Flags().BoolVar(&opts.saveConfig, "save-config", false, "Write the effective settings back to the config file")

	rootCmd.AddCommand(newImportCmd(opts), newReplayCmd(opts))
	return rootCmd
}

var logFile *os.File

// setupLogging sends slog output to a file so the terminal UI stays clean
func setupLogging(path string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	closeLog()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
