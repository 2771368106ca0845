package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Review   ReviewConfig   `mapstructure:"review"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// RateLimitRPS is the per-user request rate; 0 disables limiting.
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"   validate:"gte=0"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres connection URL or a sqlite DSN such as file:vocab.db.
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the settings used to validate bearer tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44641"`
}

// ReviewConfig tunes the scheduler and review sessions.
type ReviewConfig struct {
	MasteryThreshold     int           `mapstructure:"mastery_threshold"      validate:"gt=0"`
	DailyGoal            int           `mapstructure:"daily_goal"             validate:"gt=0"`
	DueLimit             int           `mapstructure:"due_limit"              validate:"gt=0,lte=500"`
	MinEaseFactor        float64       `mapstructure:"min_ease_factor"        validate:"gte=1.3"`
	InitialEaseFactor    float64       `mapstructure:"initial_ease_factor"    validate:"gtefield=MinEaseFactor"`
	PersistWorkers       int           `mapstructure:"persist_workers"        validate:"gt=0,lte=64"`
	PersistQueueSize     int           `mapstructure:"persist_queue_size"     validate:"gt=0"`
	PersistTimeout       time.Duration `mapstructure:"persist_timeout"        validate:"gt=0"`
	// SessionIdleTimeout is how long an untouched session stays in memory.
	SessionIdleTimeout   time.Duration `mapstructure:"session_idle_timeout"   validate:"gt=0"`
	// SweepIntervalMinutes is how often idle sessions are evicted.
	SweepIntervalMinutes int           `mapstructure:"sweep_interval_minutes" validate:"gt=0,lte=1440"`
}
