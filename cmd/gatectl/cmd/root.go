package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ops-gate/internal/config"
	"github.com/spec-kit/ops-gate/internal/gate"
)

var routesFile string

var rootCmd = &cobra.Command{
	Use:   "gatectl",
	Short: "Inspect and dry-run the ops dashboard request gate",
	Long: `gatectl prints the route classification used by the request gate and evaluates
routing decisions for a path and set of cookies without starting the server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&routesFile, "routes", "", "route table YAML file (defaults to GATE_ROUTES_FILE)")
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadRoutes resolves the route table from --routes, then the environment.
func loadRoutes(cfg *config.Config) (gate.RouteTable, error) {
	file := routesFile
	if file == "" {
		file = cfg.Gate.RoutesFile
	}
	routes, err := gate.LoadRoutes(file)
	if err != nil {
		return gate.RouteTable{}, err
	}
	return routes.WithProtectedPaths(cfg.Gate.ProtectedPaths)
}
