package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("user")
			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				return fmt.Errorf("--user must be a non-nil UUID: %q", raw)
			}

			cfg, _, err := setup(cmd, os.Stderr)
			if err != nil {
				return err
			}

			tokens, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := tokens.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().String("user", "", "User ID the token is issued for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
