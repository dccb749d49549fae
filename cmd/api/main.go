package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ops-gate/internal/api/http"
	"github.com/spec-kit/ops-gate/internal/api/http/handlers"
	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/config"
	"github.com/spec-kit/ops-gate/internal/gate"
	"github.com/spec-kit/ops-gate/internal/observability"
	"github.com/spec-kit/ops-gate/internal/persistence"
	"github.com/spec-kit/ops-gate/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	requestGate, err := buildGate(cfg, pg, redis, logger, metrics)
	if err != nil {
		logger.Fatal("failed to build request gate", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	}, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Session: handlers.NewSessionHandler(),
		Proxy:   handlers.NewProxyHandler(cfg.App.UpstreamURL, logger),
		Gate:    requestGate,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("upstream", cfg.App.UpstreamURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildGate(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger, metrics *observability.Metrics) (*gate.Gate, error) {
	routes, err := gate.LoadRoutes(cfg.Gate.RoutesFile)
	if err != nil {
		return nil, err
	}
	routes, err = routes.WithProtectedPaths(cfg.Gate.ProtectedPaths)
	if err != nil {
		return nil, err
	}

	policy, err := gate.ParseFailurePolicy(cfg.Gate.FailurePolicy)
	if err != nil {
		return nil, err
	}

	var sessions auth.SessionResolver
	switch cfg.Auth.Mode {
	case "remote":
		sessions = auth.NewRemoteSessionResolver(cfg.Auth.ProviderURL, cfg.Auth.ProviderAPIKey, cfg.Auth.SessionCookie, cfg.Auth.ProviderTimeout())
	default:
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)
		sessions = auth.NewTokenSessionResolver(tokens, cfg.Auth.SessionCookie)
	}

	deps := gate.Dependencies{
		Sessions: sessions,
		Logger:   logger.Named("gate"),
		Metrics:  metrics,
	}
	if pool := pg.PoolHandle(); pool != nil {
		var roles repository.RoleLookup = repository.NewRoleStore(
			repository.NewStaffRoleRepository(pool),
			repository.NewCustomerRoleRepository(pool),
		)
		if redis.Enabled() && cfg.Redis.RoleCacheTTL() > 0 {
			roles = repository.NewCachedRoleStore(roles, redis.Client, cfg.Redis.RoleCacheTTL(), logger.Named("role_cache"))
		}
		deps.Roles = roles
	} else {
		logger.Warn("role store unavailable; callers without an embedded role will be sent to sign-in from /")
	}

	return gate.New(gate.Config{
		Routes:              routes,
		AccessTokenCookie:   cfg.Auth.AccessTokenCookie,
		FailurePolicy:       policy,
		RejectInactiveRoles: cfg.Gate.RejectInactiveRoles,
	}, deps)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
