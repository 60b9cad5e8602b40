package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/smallnest/workflowpaths/workflow"
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the command line tool's configuration file.
type Config struct {
	LogLevel string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error none off disable"`
	Extract  ExtractConfig `yaml:"extract"`
	Output   OutputConfig  `yaml:"output"`
	Store    StoreConfig   `yaml:"store"`
}

// ExtractConfig holds workflow extraction settings.
type ExtractConfig struct {
	Start            string `yaml:"start" validate:"required"`
	End              string `yaml:"end" validate:"required,nefield=Start"`
	PathLimit        int    `yaml:"path_limit" validate:"gte=1"`
	FailOnTruncation bool   `yaml:"fail_on_truncation"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json markdown md html"`
	Title  string `yaml:"title"`
}

// StoreConfig selects the report store. DSN is backend specific: a
// directory for file, a database path for sqlite, a connection string for
// postgres and an address for redis.
type StoreConfig struct {
	Backend string        `yaml:"backend" validate:"oneof=memory file sqlite postgres redis"`
	DSN     string        `yaml:"dsn" validate:"required_unless=Backend memory"`
	Table   string        `yaml:"table"`
	Prefix  string        `yaml:"prefix"`
	TTL     time.Duration `yaml:"ttl" validate:"gte=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Extract: ExtractConfig{
			Start:     workflow.Start,
			End:       workflow.End,
			PathLimit: workflow.DefaultMaxPathLength,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Store: StoreConfig{
			Backend: "file",
			DSN:     ".workflows",
		},
	}
}

var validate = validator.New()

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode the config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write the config file: %w", err)
	}
	return nil
}
