// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for compass-chat.
//
// Supports TOML configuration with sensible defaults and environment variable
// overrides.
//
// Configuration file location (in order of precedence):
//   - ~/.compass-chat/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete compass-chat configuration.
type Config struct {
	// Backend holds reply service settings
	Backend BackendConfig `toml:"backend"`

	// UI holds presentation settings
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains reply service connection settings.
type BackendConfig struct {
	// URL is the base URL of the reply service.
	// Overridden by the BACKEND_URL environment variable when set.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Greeting is the consultant turn seeded into every new conversation.
	Greeting string `toml:"greeting"`
	// FallbackReply is shown when the service returns no reply text.
	FallbackReply string `toml:"fallback_reply"`
	// ShowTimestamps renders a timestamp next to each turn.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultBackendURL points at a local reply service instance.
	DefaultBackendURL = "http://127.0.0.1:5000"

	// DefaultTimeoutSecs allows for a slow LLM round trip behind the service.
	DefaultTimeoutSecs = 60

	// DefaultGreeting opens every conversation.
	DefaultGreeting = "Hi! 👋 I'm your Issa Compass visa consultant. Ask me anything about the Thai DTV visa."

	// DefaultFallbackReply covers a success response with no reply text.
	DefaultFallbackReply = "Sorry, I wasn't able to come up with a reply just now. Could you ask that again?"
)

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         DefaultBackendURL,
			TimeoutSecs: DefaultTimeoutSecs,
		},
		UI: UIConfig{
			Greeting:       DefaultGreeting,
			FallbackReply:  DefaultFallbackReply,
			ShowTimestamps: false,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// ConfigDir returns the compass-chat configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".compass-chat"), nil
}

// EnsureConfigDir creates the configuration directory if it is missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// Load reads the configuration file, applies environment overrides, and
// validates the result. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := ConfigDir()
	if err == nil {
		path := filepath.Join(dir, "config.toml")
		if _, statErr := os.Stat(path); statErr == nil {
			if _, decErr := toml.DecodeFile(path, cfg); decErr != nil {
				return nil, decErr
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a specific configuration file, applies environment
// overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of file values.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("BACKEND_URL")); v != "" {
		c.Backend.URL = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("backend.url must be an absolute http(s) URL: " + c.Backend.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("backend.url scheme must be http or https: " + c.Backend.URL)
	}
	if c.Backend.TimeoutSecs <= 0 {
		return errors.New("backend.timeout_secs must be positive")
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults so the UI can still start and show
// the fault instead of dying on boot.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.applyEnvOverrides()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global so tests start from a known state.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
