package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mindset-backend/internal/db"
	"mindset-backend/internal/repository"
	"mindset-backend/utilities"
)

// newTokenCommand issues a bearer token for an existing user. Login is handled
// by an external identity provider; this is for operators and local testing.
func newTokenCommand(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}
			if err := a.initialize(); err != nil {
				return err
			}
			defer a.log.Sync()

			user, err := repository.NewUserRepository(db.GetDB()).GetUserByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("user %s: %w", email, err)
			}
			token, err := utilities.NewTokenManager(a.cfg.Authentication).GenerateToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user")
	return cmd
}
