package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/dispute-client/config"
	"github.com/onflow/dispute-client/utils/logging"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "challenger",
	Short:        "Solve tasks and answer verification challenges against the solutions",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path of a YAML, JSON or TOML config file")
	config.InitializeFlags(rootCmd.PersistentFlags(), config.DefaultConfig())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(midpointCmd)
}

// loadConfig reads and validates the node config and creates the node logger.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}
