// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for entref configuration.
	DefaultConfigDir = ".entref"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultHistoryFile is the default build history database name.
	DefaultHistoryFile = "history.db"

	// DefaultSourceURL is the W3C HTML5 named character reference list.
	DefaultSourceURL = "https://www.w3.org/TR/2012/WD-html5-20121025/entities.json"
	// DefaultUserAgent is sent with definition fetches.
	DefaultUserAgent = "entref/0.1 (+https://github.com/ersonp/entref)"
	// DefaultTimeout bounds a single definition fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultBaseFile is the artifact name for references usable without a terminator.
	DefaultBaseFile = "entities-base.properties"
	// DefaultFullFile is the artifact name for references that require a terminator.
	DefaultFullFile = "entities-full.properties"
)

// Environment variables that override file values.
const (
	EnvSourceURL = "ENTREF_SOURCE_URL"
	EnvOutputDir = "ENTREF_OUTPUT_DIR"
	EnvLogLevel  = "ENTREF_LOG_LEVEL"
)

// Config holds static configuration (read-only after load).
type Config struct {
	Source  SourceConfig  `yaml:"source,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// SourceConfig holds configuration for fetching raw definitions.
type SourceConfig struct {
	URL       string        `yaml:"url,omitempty"`
	UserAgent string        `yaml:"user_agent,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// OutputConfig holds configuration for the persisted tables.
type OutputConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	BaseFile string `yaml:"base_file,omitempty"`
	FullFile string `yaml:"full_file,omitempty"`
}

// HistoryConfig holds configuration for the SQLite build history.
type HistoryConfig struct {
	// Path is the file path to the SQLite database. Relative paths are
	// resolved against the project directory.
	Path string `yaml:"path,omitempty"`
}

// LogConfig holds configuration for structured logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       DefaultSourceURL,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		Output: OutputConfig{
			Dir:      ".",
			BaseFile: DefaultBaseFile,
			FullFile: DefaultFullFile,
		},
		History: HistoryConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultHistoryFile),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the .entref directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'entref init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.resolvePaths(basePath)

	return cfg, nil
}

// LoadOrDefault loads the config file if present and falls back to defaults.
func LoadOrDefault(basePath string) (*Config, error) {
	if !Exists(basePath) {
		cfg := Default()
		cfg.applyEnvOverrides()
		cfg.resolvePaths(basePath)
		return cfg, nil
	}
	return Load(basePath)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSourceURL); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// resolvePaths makes relative output and history paths absolute under basePath.
func (c *Config) resolvePaths(basePath string) {
	c.Output.Dir = resolvePathRelativeTo(c.Output.Dir, basePath)
	if c.History.Path != ":memory:" {
		c.History.Path = resolvePathRelativeTo(c.History.Path, basePath)
	}
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ConfigDir returns the path to the .entref config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if an entref config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
