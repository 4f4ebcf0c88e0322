// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/answerview/lib/cli"
	"github.com/bureau-foundation/answerview/lib/tui"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "ANSWERVIEW_CONFIG"

// minimumWidth is the narrowest body wrap width accepted for
// display.max_width. Narrower columns make citation chips unreadable.
const minimumWidth = 20

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local use.
	Development Environment = "development"
	// Staging is for pre-production review of answers.
	Staging Environment = "staging"
	// Production is for operator-facing deployments.
	Production Environment = "production"
)

// Config is the answerview configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Display configures how answers are rendered.
	Display DisplayConfig `yaml:"display"`

	// Logging configures background log records.
	Logging LoggingConfig `yaml:"logging"`

	// Cache configures the normalization memo.
	Cache CacheConfig `yaml:"cache"`

	// Per-environment overrides, applied after the base values.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Display *DisplayOverrides `yaml:"display,omitempty"`
	Logging *LoggingConfig    `yaml:"logging,omitempty"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// State is where the viewer keeps local files such as logs.
	State string `yaml:"state"`
}

// DisplayConfig configures rendering.
type DisplayConfig struct {
	// MaxWidth caps the answer body's wrap width in columns. Zero
	// uses the full terminal width.
	MaxWidth int `yaml:"max_width"`

	// Theme is "dark" or "light".
	Theme string `yaml:"theme"`

	// CodeStyle is the chroma style for fenced code blocks.
	CodeStyle string `yaml:"code_style"`

	// Disclaimer replaces the default notice under each answer.
	Disclaimer string `yaml:"disclaimer"`

	// ShowDisclaimer controls whether the notice is shown at all.
	ShowDisclaimer bool `yaml:"show_disclaimer"`
}

// DisplayOverrides mirrors DisplayConfig with pointer fields where the
// zero value is meaningful.
type DisplayOverrides struct {
	MaxWidth       *int   `yaml:"max_width,omitempty"`
	Theme          string `yaml:"theme,omitempty"`
	CodeStyle      string `yaml:"code_style,omitempty"`
	Disclaimer     string `yaml:"disclaimer,omitempty"`
	ShowDisclaimer *bool  `yaml:"show_disclaimer,omitempty"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum level shown: debug, info, warn, or error.
	Level string `yaml:"level"`

	// Output, when set, is a file receiving every record as JSON in
	// addition to the status line.
	Output string `yaml:"output"`
}

// CacheConfig configures the normalization memo.
type CacheConfig struct {
	// Entries is the number of normalized answers kept. Zero selects
	// the memo's default capacity.
	Entries int `yaml:"entries"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			State: filepath.Join(homeDir, ".cache", "answerview"),
		},
		Display: DisplayConfig{
			MaxWidth:       100,
			Theme:          "dark",
			CodeStyle:      "monokai",
			ShowDisclaimer: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Cache: CacheConfig{
			Entries: 64,
		},
	}
}

// Resolve loads the configuration named by path, or by
// ANSWERVIEW_CONFIG when path is empty. With neither set it returns
// [Default].
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// Load loads configuration from the ANSWERVIEW_CONFIG environment
// variable. Unlike [Resolve], it fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your answerview.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// environment overrides, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Level: "error"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if display := overrides.Display; display != nil {
		if display.MaxWidth != nil {
			c.Display.MaxWidth = *display.MaxWidth
		}
		if display.Theme != "" {
			c.Display.Theme = display.Theme
		}
		if display.CodeStyle != "" {
			c.Display.CodeStyle = display.CodeStyle
		}
		if display.Disclaimer != "" {
			c.Display.Disclaimer = display.Disclaimer
		}
		if display.ShowDisclaimer != nil {
			c.Display.ShowDisclaimer = *display.ShowDisclaimer
		}
	}

	if logging := overrides.Logging; logging != nil {
		if logging.Level != "" {
			c.Logging.Level = logging.Level
		}
		if logging.Output != "" {
			c.Logging.Output = logging.Output
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	vars["ANSWERVIEW_STATE"] = c.Paths.State

	c.Logging.Output = expandVars(c.Logging.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces each ${NAME} or ${NAME:-default} with the value
// from vars, then the process environment, then the default.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	environments := []Environment{Development, Staging, Production}
	if !slices.Contains(environments, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Display.MaxWidth < 0 || (c.Display.MaxWidth > 0 && c.Display.MaxWidth < minimumWidth) {
		errs = append(errs, fmt.Errorf("display.max_width must be 0 or at least %d, got %d", minimumWidth, c.Display.MaxWidth))
	}

	if _, ok := tui.ThemeByName(c.Display.Theme); !ok {
		errs = append(errs, fmt.Errorf("display.theme must be dark or light, got %q", c.Display.Theme))
	}

	if _, ok := styles.Registry[c.Display.CodeStyle]; !ok {
		errs = append(errs, fmt.Errorf("display.code_style %q is not a known chroma style", c.Display.CodeStyle))
	}

	if _, err := cli.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if c.Cache.Entries < 0 {
		errs = append(errs, fmt.Errorf("cache.entries must not be negative, got %d", c.Cache.Entries))
	}

	return errors.Join(errs...)
}

// LogLevel returns the parsed logging level, defaulting to warn when
// the configured value is invalid. Call Validate first to report it.
func (c *Config) LogLevel() slog.Level {
	level, err := cli.ParseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// Theme returns the configured color theme.
func (c *Config) Theme() tui.Theme {
	theme, ok := tui.ThemeByName(c.Display.Theme)
	if !ok {
		return tui.DefaultTheme
	}
	return theme
}

// EnsurePaths creates the state directory and the log file's parent.
func (c *Config) EnsurePaths() error {
	paths := []string{c.Paths.State}
	if c.Logging.Output != "" {
		paths = append(paths, filepath.Dir(c.Logging.Output))
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
