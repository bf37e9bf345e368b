package cmd

import (
	"fmt"
	"os"

	"github.com/josephgoksu/todowing/internal/config"
	"github.com/josephgoksu/todowing/types"
	"github.com/spf13/viper"
)

// InitConfig reads the config file, .env and environment into a validated AppConfig.
func InitConfig() (*types.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}
	}
	return cfg, nil
}

// GetConfig returns the configuration resolved for the running command.
func GetConfig() *types.AppConfig {
	return appConfig
}
