package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimit       int           `yaml:"rate_limit"       env:"SERVER_RATE_LIMIT"       env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"  env:"AUTH_JWT_SECRET"  env-required:"true"`
	JWTIssuer  string        `yaml:"jwt_issuer"  env:"AUTH_JWT_ISSUER"  env-default:"vocab-backend"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"AUTH_SESSION_TTL" env-default:"720h"`
}

// VocabularyConfig holds vocabulary service settings.
type VocabularyConfig struct {
	ImportMaxFileSize  int64         `yaml:"import_max_file_size"  env:"VOCAB_IMPORT_MAX_FILE_SIZE"  env-default:"10485760"`
	ImportChunkSize    int           `yaml:"import_chunk_size"     env:"VOCAB_IMPORT_CHUNK_SIZE"     env-default:"1000"`
	ImportMaxFailures  int           `yaml:"import_max_failures"   env:"VOCAB_IMPORT_MAX_FAILURES"   env-default:"100"`
	BatchUpdateMax     int           `yaml:"batch_update_max"      env:"VOCAB_BATCH_UPDATE_MAX"      env-default:"100"`
	ExportMaxEntries   int           `yaml:"export_max_entries"    env:"VOCAB_EXPORT_MAX_ENTRIES"    env-default:"10000"`
	ExportLinkLifetime time.Duration `yaml:"export_link_lifetime"  env:"VOCAB_EXPORT_LINK_LIFETIME"  env-default:"24h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
