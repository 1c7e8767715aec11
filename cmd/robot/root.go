package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/miaopass-future/robotframework/internal/config"
	"github.com/miaopass-future/robotframework/internal/logging"
	"github.com/miaopass-future/robotframework/pkg/model"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the robot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robot",
		Short: "Robot - test execution listener tooling",
		Long: `Robot manages execution listeners: external observers that are
notified about suite, test and keyword events during a test run.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logging.SetDefault(logging.Options{
				Service: "robot",
				Version: cmd.Root().Version,
				Format:  cfg.LogFormat,
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().String("log-level", model.LevelInfo.String(), "listener log message threshold")
	cmd.PersistentFlags().String("log-format", "json", "engine log output format (json or text)")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewListenersCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

// loadConfig reads the config file named by --config and overlays the
// command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		return config.Config{}, err
	}
	return cfg, nil
}
