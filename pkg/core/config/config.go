// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leseb/doctext/pkg/observability/logging"
)

// Config represents the main configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxConnections  int           `yaml:"max_connections"`   // 0 means unlimited
	MaxUploadMemory int64         `yaml:"max_upload_memory"` // multipart bytes kept in memory
}

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// HistoryConfig contains extraction history backend configuration
type HistoryConfig struct {
	Type      string `yaml:"type"`       // "none" (default), "memory", "filesystem", "sqlite", "postgres" or "s3"
	DSN       string `yaml:"dsn"`        // postgres
	Path      string `yaml:"path"`       // filesystem, sqlite
	Bucket    string `yaml:"bucket"`     // s3
	Region    string `yaml:"region"`     // s3
	Prefix    string `yaml:"prefix"`     // s3
	Endpoint  string `yaml:"endpoint"`   // s3, for MinIO
	StoreText bool   `yaml:"store_text"` // keep extracted text in records
}

// Enabled reports whether a history backend is configured.
func (h HistoryConfig) Enabled() bool {
	return h.Type != "" && h.Type != "none"
}

// Params returns the backend factory parameters.
func (h HistoryConfig) Params() map[string]string {
	return map[string]string{
		"dsn":      h.DSN,
		"path":     h.Path,
		"bucket":   h.Bucket,
		"region":   h.Region,
		"prefix":   h.Prefix,
		"endpoint": h.Endpoint,
	}
}

// Load loads configuration from a YAML file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns default configuration with environment overrides applied
func Default() *Config {
	cfg := defaults()
	// A malformed DOCTEXT_PORT leaves the default port.
	_ = applyEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         60 * time.Second,
			MaxUploadMemory: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		History: HistoryConfig{
			Type: "none",
		},
	}
}

// applyEnv overrides file config with environment variables
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DOCTEXT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DOCTEXT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOCTEXT_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	// Logging env overrides
	if v := os.Getenv("DOCTEXT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCTEXT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// History env overrides
	if v := os.Getenv("DOCTEXT_HISTORY_TYPE"); v != "" {
		cfg.History.Type = v
	}
	if v := os.Getenv("DOCTEXT_HISTORY_DSN"); v != "" {
		cfg.History.DSN = v
	}
	if v := os.Getenv("DOCTEXT_HISTORY_BUCKET"); v != "" {
		cfg.History.Bucket = v
	}
	return nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("server.max_connections must not be negative, got %d", c.Server.MaxConnections))
	}
	if c.Server.MaxUploadMemory <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_memory must be positive, got %d", c.Server.MaxUploadMemory))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if !logging.ValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be \"json\" or \"text\", got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
