package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ops-gate/internal/api/http/handlers"
	"github.com/spec-kit/ops-gate/internal/gate"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Proxy   *handlers.ProxyHandler
	Gate    *gate.Gate
}

// RegisterRoutes wires HTTP routes. Health probes sit in front of the gate; everything
// else passes through it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	app.Use(cfg.Gate.Handler())

	app.Get("/gate/session", cfg.Session.Current)
	app.All("/*", cfg.Proxy.Forward)
}
