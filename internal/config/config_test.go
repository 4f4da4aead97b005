package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			JWTSecret:  strings.Repeat("s", 32),
			JWTIssuer:  "vocab-backend",
			SessionTTL: 720 * time.Hour,
		},
		Vocabulary: VocabularyConfig{
			ImportMaxFileSize:  10 << 20,
			ImportChunkSize:    1000,
			ImportMaxFailures:  100,
			BatchUpdateMax:     100,
			ExportMaxEntries:   10000,
			ExportLinkLifetime: 24 * time.Hour,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"zero session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }},
		{"zero file size", func(c *Config) { c.Vocabulary.ImportMaxFileSize = 0 }},
		{"zero chunk size", func(c *Config) { c.Vocabulary.ImportChunkSize = 0 }},
		{"zero failure cap", func(c *Config) { c.Vocabulary.ImportMaxFailures = 0 }},
		{"zero batch cap", func(c *Config) { c.Vocabulary.BatchUpdateMax = 0 }},
		{"zero export cap", func(c *Config) { c.Vocabulary.ExportMaxEntries = 0 }},
		{"zero link lifetime", func(c *Config) { c.Vocabulary.ExportLinkLifetime = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
