// Package config resolves todowing settings from flags, environment,
// .env and an optional .todowing.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/josephgoksu/todowing/models"
	"github.com/josephgoksu/todowing/types"
	"github.com/spf13/viper"
)

const (
	configName = ".todowing"
	envPrefix  = "TODOWING"
)

// Backend names accepted by storage.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("storage.backend", BackendFile)
	viper.SetDefault("storage.key", "todos")
	viper.SetDefault("storage.format", "json")
	viper.SetDefault("storage.dsn", "")
	viper.SetDefault("storage.redis.addr", "localhost:6379")
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.prefix", "todowing:")
	viper.SetDefault("storage.timeout", 2*time.Second)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")
}

// Load reads .env, environment variables and the config file into viper,
// then unmarshals and validates the result. A missing config file is fine;
// a file named by --config that cannot be read is an error.
func Load() (*types.AppConfig, error) {
	// It's okay if .env doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if info, err := os.Stat(localDataDir); err == nil && info.IsDir() {
			viper.AddConfigPath(localDataDir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = GetDataDir()
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *types.AppConfig) error {
	if err := models.ValidateStruct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
