// Package config resolves tablescore settings from defaults, a .env file,
// an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/tablescore/internal/kv"
	"github.com/dshills/tablescore/internal/presets"
)

// Environment variables read by Load.
const (
	EnvStore   = "TABLESCORE_STORE"
	EnvData    = "TABLESCORE_DATA"
	EnvPreset  = "TABLESCORE_PRESET"
	EnvVerbose = "TABLESCORE_VERBOSE"
)

// EnvFile is the dotenv file Load reads from the working directory.
const EnvFile = ".env"

// Config is the resolved configuration.
type Config struct {
	Store   StoreConfig `yaml:"store"`
	Preset  string      `yaml:"preset"`
	Verbose bool        `yaml:"verbose"`
}

// StoreConfig selects the persistence backend. Location is a directory for
// the file backend and a database path for sqlite.
type StoreConfig struct {
	Backend  string `yaml:"backend"`
	Location string `yaml:"location"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Backend: kv.BackendFile},
		Preset: presets.Default,
	}
}

// Load resolves configuration. Later sources override earlier ones:
// defaults, .env, the YAML file at path (skipped when path is empty),
// environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: %s: %w", EnvFile, err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvStore); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv(EnvData); v != "" {
		cfg.Store.Location = v
	}
	if v := os.Getenv(EnvPreset); v != "" {
		cfg.Preset = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %s: %w", EnvVerbose, err)
		}
		cfg.Verbose = b
	}
	return cfg, nil
}

// Validate checks the backend and preset names.
func (c *Config) Validate() error {
	backend := strings.ToLower(c.Store.Backend)
	valid := false
	for _, b := range kv.Backends() {
		if b == backend {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid store backend %q (want one of %s)", c.Store.Backend, strings.Join(kv.Backends(), ", "))
	}
	if c.Preset != "" {
		if _, err := presets.LoadBuiltin(c.Preset); err != nil {
			return fmt.Errorf("invalid preset: %w", err)
		}
	}
	return nil
}

// StoreLocation returns Store.Location, or the default location for the
// backend under the user's config directory.
func (c *Config) StoreLocation() string {
	if c.Store.Location != "" {
		return c.Store.Location
	}
	base := defaultDataDir()
	if strings.EqualFold(c.Store.Backend, kv.BackendSQLite) {
		return filepath.Join(base, "tablescore.db")
	}
	return base
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tablescore")
	}
	return ".tablescore"
}
