package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Tables     []string         `yaml:"tables"`
	Drop       bool             `yaml:"drop"`
	Output     string           `yaml:"output"`
	DDLSource  string           `yaml:"ddlSource"`
	Encoding   EncodingConfig   `yaml:"encoding"`
	Log        LogConfig        `yaml:"log"`
}

type ConnectionConfig struct {
	OCIString string `yaml:"ocistring"`
	DBEnv     string `yaml:"dbenv"`
	MaxConns  int    `yaml:"maxConns"`
}

type EncodingConfig struct {
	EscapeQuotes *bool  `yaml:"escapeQuotes"`
	Undetermined string `yaml:"undetermined"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	escape := true
	return &Config{
		DDLSource: "metadata",
		Encoding: EncodingConfig{
			EscapeQuotes: &escape,
			Undetermined: "null",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TableList joins the configured tables the way --tables expects them.
func (c *Config) TableList() string {
	return strings.Join(c.Tables, ",")
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	switch c.DDLSource {
	case "metadata", "dictionary":
	default:
		return fmt.Errorf("ddlSource must be metadata or dictionary, got %q", c.DDLSource)
	}
	switch strings.ToLower(c.Encoding.Undetermined) {
	case "null", "omit":
	default:
		return fmt.Errorf("encoding.undetermined must be null or omit, got %q", c.Encoding.Undetermined)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Connection.MaxConns < 0 {
		return errors.New("connection.maxConns must not be negative")
	}
	for _, table := range c.Tables {
		if table == "" {
			return errors.New("tables must not contain empty names")
		}
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
