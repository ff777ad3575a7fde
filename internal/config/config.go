package config

// Configuration loading and validation for packetbrowser

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/logging"
	"github.com/NeedsSoySauce/Packet-Browser/internal/table"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "packetbrowser.yaml"

// SizePolicy names the rule for accepting an edited packet size.
type SizePolicy string

const (
	SizeNonNegative SizePolicy = "non_negative"
	SizePositive    SizePolicy = "positive"
)

// LogConfig controls the logger
type LogConfig struct {
	Level string `yaml:"level"`          // silent, error, info, verbose, debug
	File  string `yaml:"file,omitempty"` // optional log file
}

// TableConfig controls how query results are shown and edited
type TableConfig struct {
	HiddenColumns []string   `yaml:"hidden_columns"`
	SizePolicy    SizePolicy `yaml:"size_policy"`
}

// ServeConfig controls the HTTP API
type ServeConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the packetbrowser configuration file
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Table TableConfig `yaml:"table"`
	Serve ServeConfig `yaml:"serve"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Table: TableConfig{
			HiddenColumns: []string{},
			SizePolicy:    SizeNonNegative,
		},
		Serve: ServeConfig{
			ListenAddr: "127.0.0.1:8080",
		},
	}
}

// WriteDefault writes the default configuration to path
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load reads a configuration file. When explicit is false a missing file is
// not an error and the defaults are returned.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.WrapConfigError(
				fmt.Errorf("config file not found: %s", path),
				path,
			)
		}
		return nil, errors.WrapConfigError(
			fmt.Errorf("read config file: %w", err),
			path,
		)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}

	return cfg, nil
}

// Validate checks a configuration and fills empty values with defaults
func Validate(cfg *Config) error {
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if cfg.Table.SizePolicy == "" {
		cfg.Table.SizePolicy = SizeNonNegative
	}
	switch cfg.Table.SizePolicy {
	case SizeNonNegative, SizePositive:
	default:
		return fmt.Errorf("table.size_policy must be %q or %q, got %q", SizeNonNegative, SizePositive, cfg.Table.SizePolicy)
	}

	for i, name := range cfg.Table.HiddenColumns {
		if _, err := table.ParseColumn(name); err != nil {
			return fmt.Errorf("table.hidden_columns[%d]: %w", i, err)
		}
	}

	if cfg.Serve.ListenAddr == "" {
		cfg.Serve.ListenAddr = Default().Serve.ListenAddr
	}
	if _, _, err := net.SplitHostPort(cfg.Serve.ListenAddr); err != nil {
		return fmt.Errorf("serve.listen_addr: %w", err)
	}

	return nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// TableOptions builds the options every new table model is created with
func (c *Config) TableOptions() table.Options {
	opts := table.Options{AcceptSize: table.NonNegativeSize}
	if c.Table.SizePolicy == SizePositive {
		opts.AcceptSize = table.PositiveSize
	}
	for _, name := range c.Table.HiddenColumns {
		if col, err := table.ParseColumn(name); err == nil {
			opts.Hidden = append(opts.Hidden, col)
		}
	}
	return opts
}

// HiddenColumnsString formats the hidden columns for display
func (c *Config) HiddenColumnsString() string {
	if len(c.Table.HiddenColumns) == 0 {
		return "(none)"
	}
	return strings.Join(c.Table.HiddenColumns, ", ")
}
