package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/config"
	"github.com/spec-kit/ops-gate/internal/gate"
	"github.com/spec-kit/ops-gate/internal/persistence"
	"github.com/spec-kit/ops-gate/internal/repository"
)

var (
	decidePath        string
	decideSession     string
	decideAccessToken string
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Evaluate the gate for a path and tokens",
	Long: `decide runs one routing decision with the session resolver configured by AUTH_JWT_SECRET.
When POSTGRES_DSN is set the role tables are consulted as the server would.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		routes, err := loadRoutes(cfg)
		if err != nil {
			return err
		}
		policy, err := gate.ParseFailurePolicy(cfg.Gate.FailurePolicy)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)
		deps := gate.Dependencies{Sessions: auth.NewTokenSessionResolver(tokens, cfg.Auth.SessionCookie)}

		if cfg.Postgres.DSN != "" {
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, zap.NewNop())
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pg.Close()
			deps.Roles = repository.NewRoleStore(
				repository.NewStaffRoleRepository(pg.PoolHandle()),
				repository.NewCustomerRoleRepository(pg.PoolHandle()),
			)
		}

		g, err := gate.New(gate.Config{
			Routes:              routes,
			AccessTokenCookie:   cfg.Auth.AccessTokenCookie,
			FailurePolicy:       policy,
			RejectInactiveRoles: cfg.Gate.RejectInactiveRoles,
		}, deps)
		if err != nil {
			return err
		}

		cookies := auth.CookieMap{}
		if decideSession != "" {
			cookies[cfg.Auth.SessionCookie] = decideSession
		}
		if decideAccessToken != "" {
			cookies[cfg.Auth.AccessTokenCookie] = decideAccessToken
		}

		printDecision(cmd.OutOrStdout(), g.Decide(ctx, decidePath, cookies))
		return nil
	},
}

func printDecision(out io.Writer, d gate.Decision) {
	switch d.Action {
	case gate.ActionRedirect:
		fmt.Fprintf(out, "redirect %s (reason=%s)\n", d.Location, d.Reason)
	default:
		fmt.Fprintf(out, "pass (reason=%s)", d.Reason)
		if d.Principal != nil {
			fmt.Fprintf(out, " user=%s role=%s", d.Principal.Session.Subject, d.Principal.Role)
		}
		fmt.Fprintln(out)
	}
}

func init() {
	decideCmd.Flags().StringVar(&decidePath, "path", "/", "request path")
	decideCmd.Flags().StringVar(&decideSession, "session", "", "session token cookie value")
	decideCmd.Flags().StringVar(&decideAccessToken, "access-token", "", "embedded-role token cookie value")
}
