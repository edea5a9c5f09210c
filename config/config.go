// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional YAML settings file of the geonames tool.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cwrc/geonames/geonames"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "geonames.yaml"

// UsernameEnv overrides the username from the file.
const UsernameEnv = "GEONAMES_USERNAME"

// Config application settings.
type Config struct {
	Username       string `yaml:"username"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	Listen         string `yaml:"listen"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Username:       "",
		BaseURL:        geonames.DefaultBaseURL,
		TimeoutSeconds: int(geonames.DefaultTimeout / time.Second),
		UserAgent:      "",
		Listen:         "localhost:8080",
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// The username from the environment, when set, wins over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if username := strings.TrimSpace(os.Getenv(UsernameEnv)); username != "" {
		cfg.Username = username
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings. An empty username is allowed here: lookups
// report it with a proper error.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config error: base_url cannot be empty")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config error: base_url must be an absolute URL, got %q", c.BaseURL)
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: timeout_seconds must be greater than 0")
	}

	if c.Listen == "" {
		return fmt.Errorf("config error: listen cannot be empty")
	}

	return nil
}

// Timeout is TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// String returns string representation of config (hides the username).
func (c *Config) String() string {
	return fmt.Sprintf(`GeoNames Configuration:
  Username: %s
  Base URL: %s
  Timeout Seconds: %d
  User Agent: %s
  Listen: %s`,
		redact(c.Username),
		c.BaseURL,
		c.TimeoutSeconds,
		c.UserAgent,
		c.Listen,
	)
}

func redact(value string) string {
	if value == "" {
		return "(not configured)"
	}

	if len(value) > 3 {
		return value[:3] + "..."
	}

	return "***"
}
