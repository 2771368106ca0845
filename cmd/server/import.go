package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a word list from a JSON, CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("user")
			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				return fmt.Errorf("--user must be a non-nil UUID: %q", raw)
			}
			name, _ := cmd.Flags().GetString("name")

			res, err := importer.ParseFile(args[0], name)
			if err != nil {
				return err
			}
			res.List.UserID = userID

			cfg, logger, err := setup(cmd, os.Stderr)
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := db.migrateUp(cmd.Context(), logger); err != nil {
				return err
			}
			if err := db.lists.CreateList(cmd.Context(), &res.List, res.Words); err != nil {
				return fmt.Errorf("failed to store list %q: %w", res.List.Name, err)
			}

			logger.Info("word list imported",
				slog.String("list_id", res.List.ID.String()),
				slog.Int("words", len(res.Words)),
				slog.Int("skipped", len(res.Skipped)))
			return printImportResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("user", "", "Owner of the imported list")
	cmd.Flags().String("name", "", "List name (default: from the file)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printImportResult(w io.Writer, res *importer.Result) error {
	if _, err := fmt.Fprintf(w, "imported %q (%s): %d words\n", res.List.Name, res.List.ID, len(res.Words)); err != nil {
		return err
	}
	for _, s := range res.Skipped {
		if _, err := fmt.Fprintf(w, "  skipped row %d: %s\n", s.Row, s.Reason); err != nil {
			return err
		}
	}
	return nil
}
