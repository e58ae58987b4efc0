// Package config provides configuration loading and management for largeimage.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"largeimage/internal/bytesize"
	"largeimage/internal/logger"
	"largeimage/pkg/blockstore/s3"
	"largeimage/pkg/sizing"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Backend names accepted in storage.backend.
const (
	BackendMemory = "memory"
	BackendFS     = "fs"
	BackendMmap   = "mmap"
	BackendBadger = "badger"
	BackendS3     = "s3"
)

// Storage selects where evicted units are persisted
type Storage struct {
	// Backend is one of memory, fs, mmap, badger, s3
	Backend string `yaml:"backend"`

	// Path is the directory (fs, badger) or the scratch file (mmap) holding units
	Path string `yaml:"path"`

	// KeepFiles leaves on-disk units in place when the store is closed
	KeepFiles bool `yaml:"keepFiles"`

	// Compression wraps the backend in a zstd codec when set to "zstd"
	Compression string `yaml:"compression"`

	// CompressionLevel is fastest, default, better or best
	CompressionLevel string `yaml:"compressionLevel"`

	// S3 configures the s3 backend
	S3 s3.Config `yaml:"s3"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Memory parameters
	Memory struct {
		// Budget is the size of one resident unit; 0 derives it from free memory
		Budget bytesize.ByteSize `yaml:"budget"`

		// BudgetFraction is the share of free memory used when Budget is 0
		BudgetFraction float64 `yaml:"budgetFraction"`

		// SizingHint divides the budget to get smaller units
		SizingHint int `yaml:"sizingHint"`
	} `yaml:"memory"`

	// Storage parameters
	Storage Storage `yaml:"storage"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many workers parallel scans use
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Logging parameters
	Logging logger.Config `yaml:"logging"`

	// Metrics parameters
	Metrics struct {
		// Enabled turns on Prometheus collection
		Enabled bool `yaml:"enabled"`

		// Listen is the address of the /metrics endpoint
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default memory parameters
	cfg.Memory.Budget = 0
	cfg.Memory.BudgetFraction = sizing.BudgetFraction
	cfg.Memory.SizingHint = 1

	// Set default storage parameters
	cfg.Storage.Backend = BackendMemory
	cfg.Storage.Path = filepath.Join(os.TempDir(), "largeimage")
	cfg.Storage.CompressionLevel = "default"
	cfg.Storage.S3.Region = "us-east-1"

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	// Set default logging parameters
	cfg.Logging.Level = "INFO"
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "stderr"

	// Set default metrics parameters
	cfg.Metrics.Enabled = false
	cfg.Metrics.Listen = ":9090"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks the configuration for values no component accepts
func (c *Config) Validate() error {
	if c.Memory.SizingHint < 1 {
		return fmt.Errorf("%w: memory.sizingHint must be >= 1, got %d", ErrInvalidConfig, c.Memory.SizingHint)
	}
	if c.Memory.BudgetFraction <= 0 || c.Memory.BudgetFraction > 1 {
		return fmt.Errorf("%w: memory.budgetFraction must be in (0,1], got %g", ErrInvalidConfig, c.Memory.BudgetFraction)
	}
	if c.Processing.NumCores < 0 {
		return fmt.Errorf("%w: processing.numCores must be >= 0, got %d", ErrInvalidConfig, c.Processing.NumCores)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFS, BackendMmap, BackendBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the %s backend", ErrInvalidConfig, c.Storage.Backend)
		}
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: storage.s3.bucket is required for the s3 backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	switch c.Storage.Compression {
	case "", "none", "zstd":
	default:
		return fmt.Errorf("%w: unknown storage.compression %q", ErrInvalidConfig, c.Storage.Compression)
	}

	return nil
}

// Budget returns the unit memory budget in bytes
func (c *Config) Budget() int64 {
	if c.Memory.Budget > 0 {
		return c.Memory.Budget.Int64()
	}
	return sizing.BudgetWithFraction(c.Memory.BudgetFraction)
}
