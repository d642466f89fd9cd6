package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xmazu/envq/internal/storage"
)

const ConfigFileName = "config.yaml"

// LogConfig controls the diagnostic logger. Output always goes to stderr so
// stdout stays reserved for document output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds user settings read from config.yaml.
type Config struct {
	Log LogConfig `yaml:"log"`
	// Audit appends a record of every file mutation to .envq/audit.jsonl
	// in the directory of the edited file.
	Audit bool `yaml:"audit"`

	file *storage.YAMLFile
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// Load reads config.yaml from the config dir. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.file = storage.NewYAMLFile(path)

	if err := cfg.file.LoadOrDefault(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.file.Path(), err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q (want debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (want text or json)", c.Log.Format)
	}
	return nil
}

func (c *Config) Save() error {
	if c.file == nil {
		c.file = storage.NewYAMLFile(ConfigPath())
	}
	return c.file.Save(c)
}
