// Package config handles the XDG configuration directory and file paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "tudu"

	// ConfigFile is the backend settings filename.
	ConfigFile = "config.toml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"
)

// Backend holds the provider connection settings from config.toml.
type Backend struct {
	// URL is the base URL of the backend project, e.g.
	// https://xyzcompany.supabase.co
	URL string `toml:"url"`

	// AnonKey is the project's public (anon) API key. It identifies the
	// project, not the user; authorization is the session token.
	AnonKey string `toml:"anon_key"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend is the provider connection, loaded from config.toml with
	// environment variable overrides.
	Backend Backend

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config rooted at configDir (or the default directory when
// empty) and loads backend settings. A missing config.toml is not an
// error; the environment alone may configure the backend.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg.Backend); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if v := os.Getenv("TUDU_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("TUDU_ANON_KEY"); v != "" {
		cfg.Backend.AnonKey = v
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// HasBackend reports whether the backend connection is configured.
func (c *Config) HasBackend() bool {
	return c.Backend.URL != "" && c.Backend.AnonKey != ""
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
