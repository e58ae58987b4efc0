package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"largeimage/internal/bytesize"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Expected backend %q, got %q", BackendMemory, cfg.Storage.Backend)
	}
	if cfg.Memory.SizingHint != 1 {
		t.Errorf("Expected sizing hint 1, got %d", cfg.Memory.SizingHint)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "largeimage.yaml")

	cfg := DefaultConfig()
	cfg.Memory.Budget = 64 * bytesize.MiB
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.Path = "/var/tmp/units"
	cfg.Processing.NumCores = 3

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Memory.Budget != 64*bytesize.MiB {
		t.Errorf("Expected budget %d, got %d", 64*bytesize.MiB, loaded.Memory.Budget)
	}
	if loaded.Storage.Backend != BackendBadger || loaded.Storage.Path != "/var/tmp/units" {
		t.Errorf("Expected badger at /var/tmp/units, got %s at %s", loaded.Storage.Backend, loaded.Storage.Path)
	}
	if loaded.Processing.NumCores != 3 {
		t.Errorf("Expected 3 cores, got %d", loaded.Processing.NumCores)
	}
	if loaded.Budget() != 64<<20 {
		t.Errorf("Expected budget %d bytes, got %d", 64<<20, loaded.Budget())
	}
}

func TestLoadConfigHumanSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "largeimage.yaml")
	data := []byte("memory:\n  budget: 256Mi\n  sizingHint: 4\nstorage:\n  backend: fs\n  path: /tmp/units\n  compression: zstd\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Memory.Budget != 256*bytesize.MiB {
		t.Errorf("Expected 256MiB, got %s", cfg.Memory.Budget)
	}
	if cfg.Memory.SizingHint != 4 {
		t.Errorf("Expected hint 4, got %d", cfg.Memory.SizingHint)
	}
	// Unset sections keep their defaults.
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"hint", func(c *Config) { c.Memory.SizingHint = 0 }},
		{"fraction", func(c *Config) { c.Memory.BudgetFraction = 1.5 }},
		{"cores", func(c *Config) { c.Processing.NumCores = -1 }},
		{"backend", func(c *Config) { c.Storage.Backend = "tape" }},
		{"path", func(c *Config) { c.Storage.Backend = BackendFS; c.Storage.Path = "" }},
		{"bucket", func(c *Config) { c.Storage.Backend = BackendS3 }},
		{"compression", func(c *Config) { c.Storage.Compression = "lz4" }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Expected ErrInvalidConfig, got %v", c.name, err)
		}
	}
}

func TestBudgetDefault(t *testing.T) {
	cfg := DefaultConfig()
	if b := cfg.Budget(); b < 1024 {
		t.Errorf("Expected a derived budget of at least 1KiB, got %d", b)
	}
}
