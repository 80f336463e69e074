package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	Import   ImportConfig   `mapstructure:"import" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"required,oneof=json text"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains the bearer token settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer        string        `mapstructure:"issuer" validate:"required"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
	ClockSkew     time.Duration `mapstructure:"clock_skew" validate:"gte=0"`
}

// SRSConfig tunes the flashcard scheduler.
type SRSConfig struct {
	MinEaseFactor  float64 `mapstructure:"min_ease_factor" validate:"gte=1"`
	FirstInterval  int     `mapstructure:"first_interval" validate:"gte=1"`
	SecondInterval int     `mapstructure:"second_interval" validate:"gtefield=FirstInterval"`
}

// ReviewConfig bounds due-card listings.
type ReviewConfig struct {
	DefaultDueLimit int `mapstructure:"default_due_limit" validate:"gte=1,ltefield=MaxDueLimit"`
	MaxDueLimit     int `mapstructure:"max_due_limit" validate:"gte=1"`
}

// ImportConfig controls spreadsheet imports.
type ImportConfig struct {
	SheetName string `mapstructure:"sheet_name" validate:"required"`
	StartRow  int    `mapstructure:"start_row" validate:"gte=1"`
}
