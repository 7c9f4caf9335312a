package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"combobox/internal/actions"
	"combobox/internal/host"
	"combobox/internal/state"
)

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay ACTIONS_FILE",
		Short: "Apply a JSON-lines action log and print the final state",
		Long: "replay reads one action envelope per line ({\"type\": ..., \"payload\": ...}), " +
			"dispatches each into a select built from the configured options and prints the resulting state as JSON.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(opts, nil)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open action log: %w", err)
			}
			defer f.Close()

			h := host.New(host.Config[string]{
				Settings: cfg.Select,
				Initial:  state.NewSelectState(cfg.OptionTree()),
			})

			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			line := 0
			for scanner.Scan() {
				line++
				text := strings.TrimSpace(scanner.Text())
				if text == "" || strings.HasPrefix(text, "#") {
					continue
				}

				action, err := actions.Unmarshal[string]([]byte(text))
				if err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				h.Dispatch(action)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read action log: %w", err)
			}

			slog.Debug("replayed actions", "file", args[0], "lines", line)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(h.State())
		},
	}
}
