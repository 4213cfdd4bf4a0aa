package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the dashboard server configuration.
type Config struct {
	Host            string
	Port            int
	PyenvBin        string        // pyenv executable, resolved on PATH when not absolute
	ExportDir       string        // where exported requirements files are written and imported from
	CommandTimeout  time.Duration // upper bound for every external command
	ListConcurrency int           // environments inspected in parallel when listing
}

// DefaultConfig returns a Config with sensible defaults, overridden by
// VENVDASH_* environment variables when set.
func DefaultConfig() *Config {
	cfg := &Config{
		Host:            "127.0.0.1",
		Port:            5000,
		PyenvBin:        "pyenv",
		ExportDir:       ExportDir(),
		CommandTimeout:  10 * time.Minute,
		ListConcurrency: 4,
	}

	if bin := os.Getenv("VENVDASH_PYENV"); bin != "" {
		cfg.PyenvBin = bin
	}
	if v := os.Getenv("VENVDASH_COMMAND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CommandTimeout = d
		}
	}
	if v := os.Getenv("VENVDASH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}

	return cfg
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// EnsureDirs creates the required directories if they don't exist.
func EnsureDirs(cfg *Config) error {
	dirs := []string{DataDir(), cfg.ExportDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
