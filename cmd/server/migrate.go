package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/vocab-srs/internal/platform/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|reset|status|version]",
		Short: "Manage the database schema",
		Long: "Apply or inspect schema migrations for the configured database driver.\n" +
			"Without an argument all pending migrations are applied.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{migrations.CommandUp, migrations.CommandDown, migrations.CommandReset, migrations.CommandStatus, migrations.CommandVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrations.CommandUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, logger, err := setup(cmd, os.Stderr)
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			runner, err := db.migrator(logger)
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context(), command)
		},
	}
}
