package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"combobox/internal/config"
	"combobox/internal/source"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var replace bool

	importCmd := &cobra.Command{
		Use:   "import OPTIONS_FILE",
		Short: "Load options from a TOML file into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return fmt.Errorf("%w: --db is required", config.ErrInvalidConfig)
			}

			options, err := config.LoadOptionsFile(args[0])
			if err != nil {
				return err
			}

			store, err := source.OpenSQLite(opts.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if replace {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
			}
			if err := store.Import(cmd.Context(), options); err != nil {
				return err
			}

			slog.Info("imported options", "file", args[0], "db", opts.dbPath, "count", len(options))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d options into %s\n", len(options), opts.dbPath)
			return nil
		},
	}

	importCmd.Flags().BoolVar(&replace, "replace", false, "Remove existing options first")
	return importCmd
}
