package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultLogFile        = "~/.worklog"
	DefaultConfigPath     = "~/.config/worklog/config.yaml"
	DefaultGroupDepth     = 1
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogFile    = "WORKLOG_LOG_FILE"
	EnvGroupDepth = "WORKLOG_GROUP_DEPTH"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile:    DefaultLogFile,
		GroupDepth: DefaultGroupDepth,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if path := os.Getenv(EnvLogFile); path != "" {
		c.LogFile = path
	}

	if depth := os.Getenv(EnvGroupDepth); depth != "" {
		n, err := strconv.Atoi(depth)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGroupDepth, err)
		}
		c.GroupDepth = n
	}

	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !(len(path) > 1 && path[0] == '~' && path[1] == '/') {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}
