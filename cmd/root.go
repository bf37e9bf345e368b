/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"

	"github.com/josephgoksu/todowing/internal/logger"
	"github.com/josephgoksu/todowing/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// backend and dataDir override storage.backend and storage.dir.
	backend string
	dataDir string

	// version is the application version.
	version = "0.1.0"

	// appConfig and appLog are resolved once per invocation in PersistentPreRunE.
	appConfig *types.AppConfig
	appLog    *logrus.Logger

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todowing",
	Short: "todowing keeps a small todo list from the terminal.",
	Long: `todowing keeps a single ordered todo list. Add tasks, tick them off,
filter the view and clear finished work, either with one-shot commands or
with the interactive UI.

Running todowing with no command opens the interactive UI when stdout is a
terminal and prints the list otherwise.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isTerminal() {
			return runTUI(cmd, args)
		}
		return runList(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.todowing/.todowing.yaml, $HOME/.todowing.yaml or ./.todowing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: file, sqlite, mysql, redis or memory")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "data directory for the file and sqlite backends")
}

// bindFlags binds persistent flags to Viper keys.
func bindFlags(cmd *cobra.Command) {
	flags := cmd.Root().PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = viper.BindPFlag("storage.dir", flags.Lookup("dir"))
}

// setup resolves configuration and logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	bindFlags(cmd)
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())

	cfg, err := InitConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log, cfg.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	appConfig = cfg
	appLog = log
	logger.SetBasePath(cfg.Storage.Dir)
	return nil
}
