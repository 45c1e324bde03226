// Package config loads the server configuration from YAML with
// environment fallbacks.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"block-quest/internal/progress"
)

// DefaultPath is where the server looks for its config file.
const DefaultPath = "configs/blockquest.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	SSHPort  int    `yaml:"ssh_port"`
	HTTPPort int    `yaml:"http_port"`
	HostKey  string `yaml:"host_key"`
}

type StorageConfig struct {
	// Driver is one of memory, file, sqlite or badger.
	Driver string `yaml:"driver"`
	// Path is the directory (file, badger) or database file (sqlite).
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver: progress.DriverSQLite,
			Path:   "data/blockquest.db",
		},
		Server: ServerConfig{
			HostKey: "host_key",
		},
	}
}

// GetSSHPort returns the SSH port: config, then PORT, then 2222.
func (s *ServerConfig) GetSSHPort() int {
	return getPortWithEnvFallback(s.SSHPort, "PORT", 2222)
}

// GetHTTPPort returns the HTTP port: config, then BQ_HTTP_PORT, then 8080.
func (s *ServerConfig) GetHTTPPort() int {
	return getPortWithEnvFallback(s.HTTPPort, "BQ_HTTP_PORT", 8080)
}

// getPortWithEnvFallback returns the port with priority config -> env -> default.
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// Load reads a YAML config over the defaults. A missing file at the
// default path is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the storage driver.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case progress.DriverMemory:
		return nil
	case progress.DriverFile, progress.DriverSQLite, progress.DriverBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage driver %q needs a path", c.Storage.Driver)
		}
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
}
