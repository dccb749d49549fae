package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ops-gate/internal/config"
	"github.com/spec-kit/ops-gate/internal/domain"
	"github.com/spec-kit/ops-gate/internal/gate"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route classification",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		routes, err := loadRoutes(cfg)
		if err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout(), routes)
	},
}

func printRoutes(out io.Writer, routes gate.RouteTable) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "sign-in\t%s\n", routes.SignInPath)
	fmt.Fprintf(tw, "root\t%s\n", routes.RootPath)
	for _, p := range routes.PublicPrefixes {
		fmt.Fprintf(tw, "public\t%s\n", p)
	}
	for _, p := range routes.ProtectedPaths {
		fmt.Fprintf(tw, "protected\t%s\n", p)
	}
	for _, p := range routes.StaffOnlyPrefixes {
		fmt.Fprintf(tw, "staff-only\t%s\n", p)
	}

	roles := make([]string, 0, len(routes.Landing))
	for role := range routes.Landing {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Fprintf(tw, "landing\t%s\t%s\n", role, routes.Landing[domain.Role(role)])
	}
	return tw.Flush()
}
