// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/answerview/lib/cli"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answerview.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("Environment = %q, want %q", cfg.Environment, Development)
	}
	if cfg.Display.MaxWidth != 100 {
		t.Errorf("Display.MaxWidth = %d, want 100", cfg.Display.MaxWidth)
	}
	if !cfg.Display.ShowDisclaimer {
		t.Error("Display.ShowDisclaimer = false, want true")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: staging
display:
  max_width: 72
  theme: light
  code_style: github
  disclaimer: "Verify before acting."
logging:
  level: info
  output: ${HOME}/answerview.log
`)
	t.Setenv("HOME", "/home/reviewer")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.Display.MaxWidth != 72 {
		t.Errorf("Display.MaxWidth = %d, want 72", cfg.Display.MaxWidth)
	}
	if cfg.Display.Theme != "light" {
		t.Errorf("Display.Theme = %q, want light", cfg.Display.Theme)
	}
	if cfg.Display.Disclaimer != "Verify before acting." {
		t.Errorf("Display.Disclaimer = %q", cfg.Display.Disclaimer)
	}
	// Unset keys keep their defaults.
	if !cfg.Display.ShowDisclaimer {
		t.Error("Display.ShowDisclaimer lost its default")
	}
	if cfg.Logging.Output != "/home/reviewer/answerview.log" {
		t.Errorf("Logging.Output = %q, want /home/reviewer/answerview.log", cfg.Logging.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadFile on a missing file succeeded")
	}
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want a not-exist error", err)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "display: [unclosed\n")
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile on malformed YAML succeeded")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	if _, err := Load(); err == nil {
		t.Error("Load without ANSWERVIEW_CONFIG succeeded")
	}
}

func TestResolve(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		flagPath := writeConfig(t, "display:\n  max_width: 60\n")
		envPath := writeConfig(t, "display:\n  max_width: 90\n")
		t.Setenv(EnvironmentVariable, envPath)

		cfg, err := Resolve(flagPath)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.Display.MaxWidth != 60 {
			t.Errorf("MaxWidth = %d, want 60 from the flag path", cfg.Display.MaxWidth)
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		envPath := writeConfig(t, "display:\n  max_width: 90\n")
		t.Setenv(EnvironmentVariable, envPath)

		cfg, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.Display.MaxWidth != 90 {
			t.Errorf("MaxWidth = %d, want 90 from ANSWERVIEW_CONFIG", cfg.Display.MaxWidth)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvironmentVariable, "")

		cfg, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.Display.MaxWidth != Default().Display.MaxWidth {
			t.Errorf("MaxWidth = %d, want the default", cfg.Display.MaxWidth)
		}
	})
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
display:
  max_width: 100
development:
  display:
    max_width: 0
    show_disclaimer: false
  logging:
    level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Display.MaxWidth != 0 {
		t.Errorf("MaxWidth = %d, want 0 from the development override", cfg.Display.MaxWidth)
	}
	if cfg.Display.ShowDisclaimer {
		t.Error("ShowDisclaimer = true, want false from the development override")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestProductionDefaultOverrides(t *testing.T) {
	path := writeConfig(t, "environment: production\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error in production", cfg.Logging.Level)
	}
}

func TestOverridesForOtherEnvironmentIgnored(t *testing.T) {
	path := writeConfig(t, `
environment: staging
production:
  display:
    theme: light
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Display.Theme != "dark" {
		t.Errorf("Theme = %q, want dark (production override must not apply)", cfg.Display.Theme)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("ANSWERVIEW_TEST_DIR", "/srv/answers")

	vars := map[string]string{"HOME": "/home/reviewer"}
	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/logs", "/home/reviewer/logs"},
		{"${ANSWERVIEW_TEST_DIR}/out.log", "/srv/answers/out.log"},
		{"${ANSWERVIEW_UNSET_VARIABLE:-/tmp}/out.log", "/tmp/out.log"},
		{"${ANSWERVIEW_UNSET_VARIABLE}", ""},
		{"no variables", "no variables"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"environment", func(c *Config) { c.Environment = "qa" }, "invalid environment"},
		{"negative width", func(c *Config) { c.Display.MaxWidth = -1 }, "display.max_width"},
		{"narrow width", func(c *Config) { c.Display.MaxWidth = 5 }, "display.max_width"},
		{"theme", func(c *Config) { c.Display.Theme = "neon" }, "display.theme"},
		{"code style", func(c *Config) { c.Display.CodeStyle = "no-such-style" }, "display.code_style"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"cache entries", func(c *Config) { c.Cache.Entries = -3 }, "cache.entries"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Validate = %q, want it to mention %q", err, test.wantErr)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Display.Theme = "neon"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate succeeded")
	}
	for _, want := range []string{"display.theme", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate = %q, missing %q", err, want)
		}
	}
}

func TestValidateLogLevelIsValidationError(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"

	var toolErr *cli.ToolError
	if err := cfg.Validate(); !errors.As(err, &toolErr) {
		t.Fatalf("Validate = %v, want a *cli.ToolError in the chain", err)
	}
	if toolErr.Category != cli.CategoryValidation {
		t.Errorf("category = %q, want %q", toolErr.Category, cli.CategoryValidation)
	}
	if !strings.Contains(toolErr.Error(), `"loud"`) {
		t.Errorf("error = %q, want it to quote the bad level", toolErr)
	}
}

func TestLogLevelAndTheme(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Display.Theme = "light"

	if got := cfg.LogLevel().String(); got != "DEBUG" {
		t.Errorf("LogLevel = %s, want DEBUG", got)
	}
	if cfg.Theme().NormalText == "" {
		t.Error("Theme returned an empty theme")
	}

	cfg.Logging.Level = "bogus"
	if got := cfg.LogLevel().String(); got != "WARN" {
		t.Errorf("LogLevel for invalid level = %s, want WARN", got)
	}
}

func TestEnsurePaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Paths.State = filepath.Join(root, "state")
	cfg.Logging.Output = filepath.Join(root, "logs", "answerview.log")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	for _, dir := range []string{cfg.Paths.State, filepath.Join(root, "logs")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
