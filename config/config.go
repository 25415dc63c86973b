// Package config provides YAML configuration parsing for finboard.
//
// This package enables running finboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Portfolio Overview
//	port: 8080
//	data_file: /var/lib/finboard/finboard.json
//	request_timeout: 10s
//	proxy_url: ${FINBOARD_PROXY_URL:-}
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// defaultPort is the HTTP server port when none is configured.
	defaultPort = 8080

	// defaultDataFile is where the widget snapshot is persisted.
	defaultDataFile = "finboard.json"

	// defaultRequestTimeout bounds a single data fetch.
	defaultRequestTimeout = 10 * time.Second

	// minRequestTimeout prevents configs that make every fetch fail.
	minRequestTimeout = 1 * time.Second
)

// Config is the root configuration structure for finboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "FinBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// DataFile is the path of the persisted widget snapshot.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	// Defaults to "finboard.json" in the working directory.
	DataFile string `yaml:"data_file"`

	// RequestTimeout bounds a single widget data fetch.
	// Accepts duration strings like "10s", "1m", "500ms". Defaults to 10s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// ProxyURL routes all data fetches through an external proxy service
	// instead of fetching directly. Supports environment variable
	// substitution. Empty means direct fetching.
	ProxyURL string `yaml:"proxy_url"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in DataFile and ProxyURL. Defaults are
// applied for Port (8080), DataFile ("finboard.json"), and RequestTimeout (10s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DataFile == "" {
		cfg.DataFile = defaultDataFile
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(defaultRequestTimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.RequestTimeout.Duration() < minRequestTimeout {
		return fmt.Errorf("request_timeout must be at least %s, got %s",
			minRequestTimeout, c.RequestTimeout.Duration())
	}

	expanded, err := expandEnvVars(c.DataFile)
	if err != nil {
		return fmt.Errorf("data_file: %w", err)
	}
	c.DataFile = expanded
	if c.DataFile == "" {
		return fmt.Errorf("data_file must not expand to an empty path")
	}

	if c.ProxyURL != "" {
		expanded, err := expandEnvVars(c.ProxyURL)
		if err != nil {
			return fmt.Errorf("proxy_url: %w", err)
		}
		c.ProxyURL = expanded

		if c.ProxyURL != "" {
			parsed, err := url.Parse(c.ProxyURL)
			if err != nil {
				return fmt.Errorf("invalid proxy_url: %w", err)
			}
			if parsed.Scheme != "http" && parsed.Scheme != "https" {
				return fmt.Errorf("proxy_url scheme must be http or https, got %q", parsed.Scheme)
			}
		}
	}

	return nil
}
