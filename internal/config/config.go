package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"combobox/internal/domain"
	"combobox/internal/engine"
	"combobox/internal/eventbus"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

var ErrInvalidConfig = errors.New("invalid config")

// Source kinds
const (
	SourceMemory = "memory"
	SourceSQLite = "sqlite"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Select  engine.Settings `toml:"select"`
	UI      UISettings      `toml:"ui"`
	Source  SourceSettings  `toml:"source"`
	Options []OptionSpec    `toml:"options,omitempty"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Prompt      string `toml:"prompt"`
	Placeholder string `toml:"placeholder"`
	MaxVisible  int    `toml:"max_visible"`
	ShowHelp    bool   `toml:"show_help"`
}

// SourceSettings selects where options come from
type SourceSettings struct {
	Kind                   string  `toml:"kind"`
	Path                   string  `toml:"path,omitempty"` // sqlite database
	PageSize               int     `toml:"page_size"`
	FetchNextPercentage    float64 `toml:"fetch_next_percentage"`
	FetchNextWithRemaining int     `toml:"fetch_next_with_remaining"`
	FetchOnStart           bool    `toml:"fetch_on_start"`
}

// OptionSpec is an option as written in TOML. Value defaults to the label.
type OptionSpec struct {
	Label            string         `toml:"label,omitempty"`
	GroupLabel       string         `toml:"group_label,omitempty"`
	Value            string         `toml:"value,omitempty"`
	DisableSelection bool           `toml:"disable_selection,omitempty"`
	Options          []OptionSpec   `toml:"options,omitempty"`
	Extra            map[string]any `toml:"extra,omitempty"`
}

// Option converts the entry into an option tree
func (s OptionSpec) Option() domain.Option[string] {
	value := s.Value
	if value == "" {
		value = s.Label
		if value == "" {
			value = s.GroupLabel
		}
	}

	opt := domain.Option[string]{
		Label:            s.Label,
		GroupLabel:       s.GroupLabel,
		Value:            value,
		DisableSelection: s.DisableSelection,
		Extra:            s.Extra,
	}
	if s.GroupLabel != "" || len(s.Options) > 0 {
		opt.Options = make([]domain.Option[string], 0, len(s.Options))
		for _, child := range s.Options {
			opt.Options = append(opt.Options, child.Option())
		}
	}
	return opt
}

// SpecFromOption converts an option tree back into its TOML form
func SpecFromOption(o domain.Option[string]) OptionSpec {
	spec := OptionSpec{
		Label:            o.Label,
		GroupLabel:       o.GroupLabel,
		DisableSelection: o.DisableSelection,
		Extra:            o.Extra,
	}
	if o.Value != o.DisplayLabel() {
		spec.Value = o.Value
	}
	for _, child := range o.Options {
		spec.Options = append(spec.Options, SpecFromOption(child))
	}
	return spec
}

// OptionTree converts every configured option
func (c *Config) OptionTree() []domain.Option[string] {
	out := make([]domain.Option[string], 0, len(c.Options))
	for _, spec := range c.Options {
		out = append(out, spec.Option())
	}
	return out
}

// Validate checks the config for values the picker cannot use
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidConfig, c.Version)
	}
	switch c.Source.Kind {
	case SourceMemory:
	case SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: sqlite source needs a path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	if c.Source.PageSize < 0 {
		return fmt.Errorf("%w: page_size must not be negative", ErrInvalidConfig)
	}
	if p := c.Source.FetchNextPercentage; p < 0 || p > 1 {
		return fmt.Errorf("%w: fetch_next_percentage must be between 0 and 1", ErrInvalidConfig)
	}
	return validateOptions(c.Options, "options")
}

func validateOptions(specs []OptionSpec, path string) error {
	for i, spec := range specs {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case spec.Label == "" && spec.GroupLabel == "":
			return fmt.Errorf("%w: %s has neither label nor group_label", ErrInvalidConfig, at)
		case spec.Label != "" && spec.GroupLabel != "":
			return fmt.Errorf("%w: %s is both a leaf and a group", ErrInvalidConfig, at)
		case spec.Label != "" && len(spec.Options) > 0:
			return fmt.Errorf("%w: %s has children but no group_label", ErrInvalidConfig, at)
		}
		if err := validateOptions(spec.Options, at+".options"); err != nil {
			return err
		}
	}
	return nil
}

// optionsFile is the layout of a standalone options file
type optionsFile struct {
	Options []OptionSpec `toml:"options"`
}

// LoadOptionsFile reads the [[options]] array of a TOML file
func LoadOptionsFile(path string) ([]domain.Option[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	var f optionsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}
	if err := validateOptions(f.Options, "options"); err != nil {
		return nil, err
	}

	cfg := Config{Options: f.Options}
	return cfg.OptionTree(), nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return NewConfigServiceAt(DefaultPath())
}

// NewConfigServiceAt creates a config service backed by path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	return &configService{filePath: path, bus: bus}
}

// DefaultPath returns $XDG_CONFIG_HOME/combobox/config.toml or its platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "combobox", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, falling back to defaults when the file is missing
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Select:  engine.DefaultSettings(),
		UI: UISettings{
			Prompt:      "> ",
			Placeholder: "Type to filter",
			MaxVisible:  10,
			ShowHelp:    true,
		},
		Source: SourceSettings{
			Kind:                SourceMemory,
			PageSize:            50,
			FetchNextPercentage: 0.8,
			FetchOnStart:        true,
		},
	}
}
