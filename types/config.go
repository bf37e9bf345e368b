/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string        `mapstructure:"backend" validate:"required,oneof=file sqlite mysql redis memory"`
	Dir     string        `mapstructure:"dir"`
	Key     string        `mapstructure:"key" validate:"required,max=191"`
	Format  string        `mapstructure:"format" validate:"required,oneof=json yaml toml"`
	DSN     string        `mapstructure:"dsn" validate:"required_if=Backend mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// RedisConfig holds the connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0,max=15"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}
