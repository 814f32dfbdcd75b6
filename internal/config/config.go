// Package config loads shell configuration from TOML or YAML files with
// environment overrides, and watches for live reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a config file extension with no loader.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config is the top-level shell configuration.
type Config struct {
	Shell   ShellConfig   `toml:"shell" yaml:"shell"`
	Vault   VaultConfig   `toml:"vault" yaml:"vault"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// ShellConfig configures the dispatch loop and input handling.
type ShellConfig struct {
	// Prompt is the label for the pre-auth context.
	Prompt string `toml:"prompt" yaml:"prompt"`

	// HistorySize caps the interactive history.
	HistorySize int `toml:"history_size" yaml:"history_size"`

	// Batch lines are enqueued before the first interactive read.
	Batch []string `toml:"batch" yaml:"batch"`
}

// VaultConfig configures the vault service collaborator.
type VaultConfig struct {
	// Server is the vault service endpoint.
	Server string `toml:"server" yaml:"server"`

	// Username pre-fills the login prompt.
	Username string `toml:"username" yaml:"username"`

	// DataDir is where local state (backup listings) is cached.
	DataDir string `toml:"data_dir" yaml:"data_dir"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// File, when set, receives log output instead of stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shell: ShellConfig{
			Prompt:      "vaultsh> ",
			HistorySize: 100,
		},
		Vault: VaultConfig{
			Server: "local",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, layered over the defaults, then
// applies VAULTSH_* environment overrides. An empty path skips the file
// layer; a named file that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if cfg.Shell.HistorySize <= 0 {
		cfg.Shell.HistorySize = Default().Shell.HistorySize
	}
	return cfg, nil
}

// loadFile unmarshals a config file into cfg by extension.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		// The caller named this file explicitly; a typo must not be
		// silently papered over with defaults.
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return nil
}

// applyEnv overlays VAULTSH_* environment variables.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("VAULTSH_PROMPT"); ok {
		c.Shell.Prompt = v
	}
	if v, ok := os.LookupEnv("VAULTSH_HISTORY_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Shell.HistorySize = n
		}
	}
	if v, ok := os.LookupEnv("VAULTSH_SERVER"); ok {
		c.Vault.Server = v
	}
	if v, ok := os.LookupEnv("VAULTSH_USERNAME"); ok {
		c.Vault.Username = v
	}
	if v, ok := os.LookupEnv("VAULTSH_DATA_DIR"); ok {
		c.Vault.DataDir = v
	}
	if v, ok := os.LookupEnv("VAULTSH_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("VAULTSH_LOG_FILE"); ok {
		c.Logging.File = v
	}
}
