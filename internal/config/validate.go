package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= database.min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Vault.MaxDraftPayloadBytes <= 0 {
		return fmt.Errorf("vault.max_draft_payload_bytes must be > 0 (got %d)", c.Vault.MaxDraftPayloadBytes)
	}
	if c.Vault.MaxPublishNoteBytes <= 0 {
		return fmt.Errorf("vault.max_publish_note_bytes must be > 0 (got %d)", c.Vault.MaxPublishNoteBytes)
	}
	if c.Vault.MaxPageSize <= 0 {
		return fmt.Errorf("vault.max_page_size must be > 0 (got %d)", c.Vault.MaxPageSize)
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 when enabled (got %d)", c.RateLimit.PerMinute)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}
