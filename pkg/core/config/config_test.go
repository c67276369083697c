// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8000 || cfg.Server.Timeout != 60*time.Second {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Server.MaxUploadMemory != 33554432 || cfg.Server.MaxConnections != 0 {
		t.Errorf("unexpected upload/connection defaults: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.History.Enabled() {
		t.Errorf("history should be disabled by default, got type %q", cfg.History.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
history:
  type: sqlite
  path: /var/lib/doctext/history.db
  store_text: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected default log format, got %q", cfg.Logging.Format)
	}
	if !cfg.History.Enabled() || !cfg.History.StoreText {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if got := cfg.History.Params()["path"]; got != "/var/lib/doctext/history.db" {
		t.Errorf("Params()[path] = %q", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCTEXT_HOST", "127.0.0.1")
	t.Setenv("DOCTEXT_PORT", "9100")
	t.Setenv("DOCTEXT_LOG_LEVEL", "debug")
	t.Setenv("DOCTEXT_LOG_FORMAT", "text")
	t.Setenv("DOCTEXT_HISTORY_TYPE", "postgres")
	t.Setenv("DOCTEXT_HISTORY_DSN", "postgres://localhost/doctext")
	t.Setenv("DOCTEXT_HISTORY_BUCKET", "extractions")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9100 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.History.Type != "postgres" || cfg.History.DSN != "postgres://localhost/doctext" || cfg.History.Bucket != "extractions" {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}

	t.Setenv("DOCTEXT_PORT", "eighty")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Error("expected error for a non-numeric DOCTEXT_PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative connections", func(c *Config) { c.Server.MaxConnections = -1 }, "server.max_connections"},
		{"no upload memory", func(c *Config) { c.Server.MaxUploadMemory = 0 }, "server.max_upload_memory"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}
