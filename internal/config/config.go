package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "codebook.yaml"

// Config represents the application configuration.
type Config struct {
	Root            string          `yaml:"root"`
	Templates       TemplatesConfig `yaml:"templates"`
	Output          string          `yaml:"output"`
	Extensions      []string        `yaml:"extensions"`
	PriorityKeyword *string         `yaml:"priority_keyword,omitempty"` // nil = default, "" disables
	ReferenceFormat string          `yaml:"reference_format"`
	Compiler        CompilerConfig  `yaml:"compiler"`
	History         HistoryConfig   `yaml:"history"`
	Watch           WatchConfig     `yaml:"watch"`
}

// TemplatesConfig names the head and tail fragments of the document.
type TemplatesConfig struct {
	Head string `yaml:"head"`
	Tail string `yaml:"tail"`
}

// CompilerConfig configures the external LaTeX compiler.
type CompilerConfig struct {
	Command string      `yaml:"command"`
	Passes  int         `yaml:"passes"`
	Timeout string      `yaml:"timeout,omitempty"` // Go duration, empty = none
	Mode    CompileMode `yaml:"mode"`
}

// HistoryConfig configures the build history database.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // Empty disables history
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"`
}

// Keyword returns the effective priority keyword.
func (c *Config) Keyword() string {
	if c.PriorityKeyword == nil {
		return DefaultPriorityKeyword
	}
	return *c.PriorityKeyword
}

// CompileTimeout parses compiler.timeout. Validate guarantees it parses.
func (c *Config) CompileTimeout() time.Duration {
	d, _ := parseOptionalDuration(c.Compiler.Timeout)
	return d
}

// WatchDebounce parses watch.debounce, falling back to the default.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := parseOptionalDuration(c.Watch.Debounce)
	if d <= 0 {
		return DefaultWatchDebounce
	}
	return d
}

// Load loads configuration from path. When path is the default and the file
// does not exist, defaults are returned; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := expandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration").
				Fatal().
				WithContext("path", path).
				Build()
		}
	case os.IsNotExist(err) && path == DefaultPath:
		// No configuration file: run with defaults.
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	example := Default()
	keyword := DefaultPriorityKeyword
	example.PriorityKeyword = &keyword
	example.Compiler.Timeout = "10m"
	example.History.Path = ".codebook/history.db"
	example.Watch.Debounce = DefaultWatchDebounce.String()

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example configuration").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileAccess, "write configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
