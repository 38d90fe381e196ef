package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
)

// FileName is the config file looked up in each search directory
const FileName = "config.yaml"

// SearchPaths are tried in order when no explicit config file is given
var SearchPaths = []string{
	"/etc/bloodlink-dashboard",
	"$HOME/.bloodlink-dashboard",
	".",
}

// Environment variables overriding the file
const (
	EnvRedisURL       = "REDIS_URL"
	EnvBackendURL     = "BLOODLINK_API_URL"
	EnvGoogleClientID = "GOOGLE_CLIENT_ID"
)

// Load builds the configuration from defaults, the config file and the environment.
// An explicit path must exist; otherwise the first config.yaml found in SearchPaths is used,
// and no file at all means defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	file, err := locate(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", file, err)
		}
	}

	applyEnv(cfg)

	if cfg.Persistence.Driver == DriverFile && cfg.Persistence.Path == "" {
		cfg.Persistence.Path = DefaultSessionPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultSessionPath is where the file driver keeps the session
func DefaultSessionPath() string {
	return filepath.Join(os.ExpandEnv("$HOME/.bloodlink-dashboard"), "session.json")
}

func locate(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("locating config file: %w", err)
		}
		return path, nil
	}

	for _, dir := range SearchPaths {
		candidate := filepath.Join(os.ExpandEnv(dir), FileName)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("locating config file: %w", err)
		}
	}

	return "", nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Persistence.RedisURL = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvGoogleClientID); v != "" {
		cfg.Identity.GoogleClientID = v
	}
}
