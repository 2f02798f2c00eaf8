package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Dashboard DashboardConfig `mapstructure:"dashboard" validate:"required"`
	Task      TaskConfig      `mapstructure:"task"      validate:"required"`
	NATS      NATSConfig      `mapstructure:"nats"`
	S3        S3Config        `mapstructure:"s3"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"             validate:"required,min=32"`
	AccessTokenLifetime  time.Duration `mapstructure:"access_token_lifetime"  validate:"required"`
	RefreshTokenLifetime time.Duration `mapstructure:"refresh_token_lifetime" validate:"required"`
}

// DashboardConfig tunes the dashboard aggregation pipeline.
type DashboardConfig struct {
	// DueSoonDays is the forward-looking due-date window, in days.
	DueSoonDays int `mapstructure:"due_soon_days" validate:"required,gt=0"`

	// Timeout bounds the fan-out/fan-in join. Hitting it fails the whole
	// report; there is no partial fallback.
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// TaskConfig tunes the background worker pool carrying audit appends and
// outbound notifications.
type TaskConfig struct {
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
}

// NATSConfig configures the outbound notification publisher. An empty URL
// disables publishing; notifications then go to the no-op sink.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// S3Config configures the attachment blob store. An empty bucket disables
// the attachment endpoints.
type S3Config struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Region        string        `mapstructure:"region"`
	Bucket        string        `mapstructure:"bucket"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}
