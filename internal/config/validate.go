package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %v)", c.Auth.SessionTTL)
	}

	if err := c.Vocabulary.validate(); err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}

	return nil
}

func (v *VocabularyConfig) validate() error {
	if v.ImportMaxFileSize <= 0 {
		return fmt.Errorf("import_max_file_size must be > 0 (got %d)", v.ImportMaxFileSize)
	}
	if v.ImportChunkSize <= 0 {
		return fmt.Errorf("import_chunk_size must be > 0 (got %d)", v.ImportChunkSize)
	}
	if v.ImportMaxFailures <= 0 {
		return fmt.Errorf("import_max_failures must be > 0 (got %d)", v.ImportMaxFailures)
	}
	if v.BatchUpdateMax <= 0 {
		return fmt.Errorf("batch_update_max must be > 0 (got %d)", v.BatchUpdateMax)
	}
	if v.ExportMaxEntries <= 0 {
		return fmt.Errorf("export_max_entries must be > 0 (got %d)", v.ExportMaxEntries)
	}
	if v.ExportLinkLifetime <= 0 {
		return fmt.Errorf("export_link_lifetime must be > 0 (got %v)", v.ExportLinkLifetime)
	}
	return nil
}
