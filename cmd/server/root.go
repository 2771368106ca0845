package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/vocab-srs/internal/config"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vocab-srs",
		Short:        "Spaced repetition vocabulary review server",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to a config file (default: ./config.yaml if present)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newImportCmd())
	return root
}

// loadConfig reads the configuration named by --config, falling back to the
// environment and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and the structured logger every command uses.
// Logs go to w so that commands printing results keep stdout clean.
func setup(cmd *cobra.Command, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.SetupWithWriter(cfg.Server, w)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}
