/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/josephgoksu/todowing/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configJSON bool

// configCmd shows the resolved configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := resolvedSettings()
		if configJSON {
			m := make(map[string]string, len(settings))
			for _, kv := range settings {
				m[kv[0]] = kv[1]
			}
			return printJSON(cmd.OutOrStdout(), m)
		}
		table := &ui.Table{Headers: []string{"Key", "Value"}, Rows: settings}
		fmt.Fprint(cmd.OutOrStdout(), table.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configJSON, "json", false, "print settings as JSON")
}

// resolvedSettings lists the effective settings as key/value rows.
func resolvedSettings() [][]string {
	cfg := GetConfig()
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(none)"
	}
	dsn := ""
	if cfg.Storage.DSN != "" {
		dsn = "(set)"
	}
	return [][]string{
		{"config", configFile},
		{"storage.backend", cfg.Storage.Backend},
		{"storage.dir", cfg.Storage.Dir},
		{"storage.key", cfg.Storage.Key},
		{"storage.format", cfg.Storage.Format},
		{"storage.dsn", dsn},
		{"storage.redis.addr", cfg.Storage.Redis.Addr},
		{"storage.redis.db", strconv.Itoa(cfg.Storage.Redis.DB)},
		{"storage.redis.prefix", cfg.Storage.Redis.Prefix},
		{"storage.timeout", cfg.Storage.Timeout.String()},
		{"log.level", cfg.Log.Level},
		{"log.format", cfg.Log.Format},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
	}
}
