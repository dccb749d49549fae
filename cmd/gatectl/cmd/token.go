package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/config"
	"github.com/spec-kit/ops-gate/internal/domain"
)

var (
	tokenSubject string
	tokenEmail   string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a session token signed with AUTH_JWT_SECRET (local testing only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSubject == "" {
			return fmt.Errorf("--sub is required")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)
		token, exp, err := tokens.IssueSessionToken(tokenSubject, tokenEmail, domain.Role(tokenRole))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.UTC().Format("2006-01-02T15:04:05Z"))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "subject (user id)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "app_metadata.role claim")
}
