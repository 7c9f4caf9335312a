package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"combobox/internal/config"
	"combobox/internal/domain"
	"combobox/internal/eventbus"
	"combobox/internal/host"
	"combobox/internal/source"
	"combobox/internal/state"
	"combobox/internal/ui"
)

func runPicker(cmd *cobra.Command, opts *rootOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc, cfg, err := loadConfig(opts, bus)
	if err != nil {
		return err
	}
	if opts.saveConfig {
		if err := configSvc.Save(cfg); err != nil {
			return err
		}
		slog.Info("config saved", "path", configSvc.Path())
	}

	src, closer, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	initial := state.NewSelectState[string](nil)
	if mem, ok := src.(*source.MemorySource); ok && !cfg.Source.FetchOnStart {
		initial = state.NewSelectState(mem.All())
	}

	h := host.New(host.Config[string]{
		Settings: cfg.Select,
		Initial:  initial,
		Bus:      bus,
	})

	loader := source.NewLoader(src, bus, source.LoaderConfig{
		PageSize:               cfg.Source.PageSize,
		FetchNextPercentage:    cfg.Source.FetchNextPercentage,
		FetchNextWithRemaining: cfg.Source.FetchNextWithRemaining,
		FetchOnStart:           cfg.Source.FetchOnStart,
	})

	model := ui.NewModel(h, cfg.UI)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	model.SetProgram(p)

	// Forward loader events to the UI
	done := make(chan struct{})
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		case <-done:
		default:
			slog.Warn("event channel full, dropping event", "type", e.Type())
		}
	}
	for _, t := range []eventbus.EventType{eventbus.EventFetchStarted, eventbus.EventOptionsLoaded, eventbus.EventError} {
		unsubscribe := bus.Subscribe(t, forwardEvent)
		defer unsubscribe()
	}
	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-done:
				return
			}
		}
	}()

	loader.Start(ctx)

	if os.Getenv("COMBOBOX_E2E_TEST") == "1" {
		fmt.Fprintln(os.Stderr, "__READY__")
	}

	slog.Info("starting picker", "host", h.ID(), "source", cfg.Source.Kind, "multi", cfg.Select.MultiSelect)
	final, err := p.Run()
	close(done)
	loader.Stop()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	m := final.(*ui.Model)
	if m.Canceled() {
		return errCanceled
	}
	return printValues(cmd.OutOrStdout(), m.Selected())
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(opts *rootOptions, bus eventbus.EventBus) (config.ConfigService, *config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("config file: %w", err)
	}

	configSvc := config.NewConfigServiceWithBus(path, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return nil, nil, err
	}

	if opts.multi {
		cfg.Select.MultiSelect = true
	}
	if opts.groupSelect {
		cfg.Select.CanSelectGroup = true
	}
	if opts.allowNoHighlight {
		cfg.Select.AllowNoHighlight = true
	}
	if opts.dbPath != "" {
		cfg.Source.Kind = config.SourceSQLite
		cfg.Source.Path = opts.dbPath
	}
	if opts.optionsPath != "" {
		options, err := config.LoadOptionsFile(opts.optionsPath)
		if err != nil {
			return nil, nil, err
		}
		cfg.Options = nil
		for _, o := range options {
			cfg.Options = append(cfg.Options, config.SpecFromOption(o))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return configSvc, cfg, nil
}

// buildSource opens the option source named by the config
func buildSource(cfg *config.Config) (source.Source, io.Closer, error) {
	switch cfg.Source.Kind {
	case config.SourceMemory:
		return source.NewMemorySource(cfg.OptionTree()), nopCloser{}, nil
	case config.SourceSQLite:
		store, err := source.OpenSQLite(cfg.Source.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", source.ErrUnknownSource, cfg.Source.Kind)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func printValues(w io.Writer, selected []domain.Option[string]) error {
	for _, o := range selected {
		if _, err := fmt.Fprintln(w, o.Value); err != nil {
			return err
		}
	}
	return nil
}
