// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the policy viewer.
//
// Configuration is loaded from a single file specified by:
//   - the --config flag, or
//   - the BUREAU_POLICY_VIEWER_CONFIG environment variable
//
// There is no automatic discovery. When neither is set the viewer runs
// on [Default]; flags still override whatever the file says.
//
// The config file may contain environment-specific sections
// (development, production) that override base values when the
// environment matches. Production defaults are stricter: file watching
// is off unless the production section turns it on.
//
// Variable expansion is performed on the listing path after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/policyview/lib/codec"
)

// EnvironmentVariable names the variable consulted when no --config
// flag is given.
const EnvironmentVariable = "BUREAU_POLICY_VIEWER_CONFIG"

// DefaultPageSize is the number of policy files per page when the
// config does not set one.
const DefaultPageSize = 30

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local use against exported listings.
	Development Environment = "development"
	// Production is for operators inspecting a live policy server's
	// listing.
	Production Environment = "production"
)

// Config is the viewer configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Viewer configures the listing screen.
	Viewer ViewerConfig `yaml:"viewer"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ViewerOverrides `yaml:"development,omitempty"`
	Production  *ViewerOverrides `yaml:"production,omitempty"`
}

// ViewerConfig configures the listing screen.
type ViewerConfig struct {
	// Listing is the listing file opened when no path argument is
	// given. Supports ${HOME}.
	Listing string `yaml:"listing"`

	// Format overrides extension-based format detection: json,
	// jsonc, yaml or cbor.
	Format string `yaml:"format"`

	// PageSize is the number of policy files per page.
	// Default: 30
	PageSize int `yaml:"page_size"`

	// Paging starts the screen paged. Default: true
	Paging bool `yaml:"paging"`

	// Search is the initial search query.
	Search string `yaml:"search"`

	// Watch reloads the listing when the file changes.
	// Default: true (development), false (production)
	Watch bool `yaml:"watch"`
}

// ViewerOverrides holds the viewer fields an environment section may
// override. Nil fields keep the base value.
type ViewerOverrides struct {
	Listing  *string `yaml:"listing,omitempty"`
	Format   *string `yaml:"format,omitempty"`
	PageSize *int    `yaml:"page_size,omitempty"`
	Paging   *bool   `yaml:"paging,omitempty"`
	Search   *string `yaml:"search,omitempty"`
	Watch    *bool   `yaml:"watch,omitempty"`
}

// Default returns the default configuration. File values are merged
// over it.
func Default() *Config {
	return &Config{
		Environment: Development,
		Viewer: ViewerConfig{
			PageSize: DefaultPageSize,
			Paging:   true,
			Watch:    true,
		},
	}
}

// Resolve loads the config file named by flagPath, or by
// BUREAU_POLICY_VIEWER_CONFIG when flagPath is empty. With neither set
// it returns Default.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ViewerOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			watch := false
			overrides = &ViewerOverrides{Watch: &watch}
		}
	}

	if overrides == nil {
		return
	}
	if overrides.Listing != nil {
		c.Viewer.Listing = *overrides.Listing
	}
	if overrides.Format != nil {
		c.Viewer.Format = *overrides.Format
	}
	if overrides.PageSize != nil {
		c.Viewer.PageSize = *overrides.PageSize
	}
	if overrides.Paging != nil {
		c.Viewer.Paging = *overrides.Paging
	}
	if overrides.Search != nil {
		c.Viewer.Search = *overrides.Search
	}
	if overrides.Watch != nil {
		c.Viewer.Watch = *overrides.Watch
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}
	c.Viewer.Listing = expandVars(c.Viewer.Listing, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Viewer.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("viewer.page_size must be positive, got %d", c.Viewer.PageSize))
	}
	if c.Viewer.Format != "" {
		if _, err := codec.ParseFormat(c.Viewer.Format); err != nil {
			errs = append(errs, fmt.Errorf("viewer.format: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ListingFormat returns the configured listing format, or "" to infer
// it from the file extension. Call Validate first.
func (c *Config) ListingFormat() codec.Format {
	if c.Viewer.Format == "" {
		return ""
	}
	format, _ := codec.ParseFormat(c.Viewer.Format)
	return format
}
