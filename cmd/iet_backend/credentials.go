package main

import (
	"fmt"

	"github.com/SscSPs/income_expense_tracker/internal/utils"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [subject]",
		Short: "Print a signed bearer token",
		Long:  "Signs a JWT with JWT_SECRET for the given subject, or ADMIN_USERNAME when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := cfg.AdminUsername
			if len(args) == 1 {
				subject = args[0]
			}
			token, err := utils.GenerateJWT(subject, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Hashes the given password. Without one, a random password is generated and printed first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				generated, err := utils.GeneratePassword()
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
				password = generated
				fmt.Fprintln(cmd.OutOrStdout(), "password:", password)
			}

			hash, err := utils.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
