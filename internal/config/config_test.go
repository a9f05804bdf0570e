package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

vault:
  max_draft_payload_bytes: 524288
  max_publish_note_bytes: 200
  max_page_size: 50

log:
  level: "debug"
  format: "text"

rate_limit:
  enabled: true
  per_minute: 120
  cleanup_interval: "1m"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Vault
	if cfg.Vault.MaxDraftPayloadBytes != 524288 {
		t.Errorf("vault.max_draft_payload_bytes = %d, want 524288", cfg.Vault.MaxDraftPayloadBytes)
	}
	if cfg.Vault.MaxPublishNoteBytes != 200 {
		t.Errorf("vault.max_publish_note_bytes = %d, want 200", cfg.Vault.MaxPublishNoteBytes)
	}
	if cfg.Vault.MaxPageSize != 50 {
		t.Errorf("vault.max_page_size = %d, want 50", cfg.Vault.MaxPageSize)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Rate limit
	if !cfg.RateLimit.Enabled {
		t.Error("rate_limit.enabled should be true")
	}
	if cfg.RateLimit.PerMinute != 120 {
		t.Errorf("rate_limit.per_minute = %d, want 120", cfg.RateLimit.PerMinute)
	}
	if cfg.RateLimit.CleanupInterval != time.Minute {
		t.Errorf("rate_limit.cleanup_interval = %v, want 1m", cfg.RateLimit.CleanupInterval)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("VAULT_MAX_DRAFT_PAYLOAD_BYTES", "2048")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Vault.MaxDraftPayloadBytes != 2048 {
		t.Errorf("vault.max_draft_payload_bytes = %d, want 2048 (ENV override)", cfg.Vault.MaxDraftPayloadBytes)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Vault.MaxDraftPayloadBytes != 1048576 {
		t.Errorf("vault.max_draft_payload_bytes = %d, want 1 MiB default", cfg.Vault.MaxDraftPayloadBytes)
	}
	if cfg.Vault.MaxPublishNoteBytes != 500 {
		t.Errorf("vault.max_publish_note_bytes = %d, want 500 (default)", cfg.Vault.MaxPublishNoteBytes)
	}
	if cfg.Vault.MaxPageSize != 100 {
		t.Errorf("vault.max_page_size = %d, want 100 (default)", cfg.Vault.MaxPageSize)
	}
	if cfg.RateLimit.PerMinute != 300 {
		t.Errorf("rate_limit.per_minute = %d, want 300 (default)", cfg.RateLimit.PerMinute)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port > 65535")
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxConns = 2
	cfg.Database.MinConns = 5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max_conns < min_conns")
	}
}

func TestValidate_DraftPayloadCapZero(t *testing.T) {
	cfg := validConfig()
	cfg.Vault.MaxDraftPayloadBytes = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_draft_payload_bytes = 0")
	}
}

func TestValidate_RateLimitPerMinuteZero(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.PerMinute = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled rate limit with per_minute = 0")
	}
}

func TestValidate_RateLimitDisabledIgnoresPerMinute(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.PerMinute = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with disabled rate limit: %v", err)
	}
}

func TestValidate_UnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidate_UnknownLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Format = "logfmt"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			DSN:      "postgres://u:p@localhost:5432/testdb",
			MaxConns: 25,
			MinConns: 5,
		},
		Vault: VaultConfig{
			MaxDraftPayloadBytes: 1048576,
			MaxPublishNoteBytes:  500,
			MaxPageSize:          100,
		},
		Log:   LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			PerMinute: 300,
		},
	}
}
