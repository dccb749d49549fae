package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Gate     GateConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	UpstreamURL           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	RoleCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig describes how sessions are resolved against the auth provider.
type AuthConfig struct {
	// Mode is "jwt" (verify session tokens locally) or "remote" (ask the provider).
	Mode                  string
	JWTSecret             string
	ProviderURL           string
	ProviderAPIKey        string
	ProviderTimeoutMillis int
	SessionCookie         string
	AccessTokenCookie     string
	SessionTTLMinutes     int
}

// GateConfig holds the routing policy knobs of the request gate.
type GateConfig struct {
	RoutesFile          string
	FailurePolicy       string
	RejectInactiveRoles bool
	ProtectedPaths      []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", false)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ops-gate"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			UpstreamURL:           strings.TrimRight(os.Getenv("UPSTREAM_URL"), "/"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			RoleCacheTTLSec: getEnvAsInt("ROLE_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Mode:                  strings.ToLower(getEnv("AUTH_MODE", "jwt")),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			ProviderURL:           strings.TrimRight(os.Getenv("AUTH_PROVIDER_URL"), "/"),
			ProviderAPIKey:        os.Getenv("AUTH_PROVIDER_API_KEY"),
			ProviderTimeoutMillis: getEnvAsInt("AUTH_PROVIDER_TIMEOUT_MS", 3000),
			SessionCookie:         getEnv("GATE_SESSION_COOKIE", "sb-access-token"),
			AccessTokenCookie:     getEnv("GATE_ACCESS_TOKEN_COOKIE", "sb-claims-token"),
			SessionTTLMinutes:     getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 60),
		},
		Gate: GateConfig{
			RoutesFile:          os.Getenv("GATE_ROUTES_FILE"),
			FailurePolicy:       strings.ToLower(getEnv("GATE_FAILURE_POLICY", "open")),
			RejectInactiveRoles: getEnvAsBool("GATE_REJECT_INACTIVE_ROLES", false),
			ProtectedPaths:      getEnvAsList("GATE_PROTECTED_PATHS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.Mode {
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case "remote":
		if c.Auth.ProviderURL == "" {
			return fmt.Errorf("AUTH_PROVIDER_URL is required when AUTH_MODE=remote")
		}
	default:
		return fmt.Errorf("invalid AUTH_MODE %q", c.Auth.Mode)
	}

	switch c.Gate.FailurePolicy {
	case "open", "closed":
	default:
		return fmt.Errorf("invalid GATE_FAILURE_POLICY %q", c.Gate.FailurePolicy)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ProviderTimeout returns the timeout for remote session resolution.
func (a AuthConfig) ProviderTimeout() time.Duration {
	if a.ProviderTimeoutMillis <= 0 {
		return 0
	}
	return time.Duration(a.ProviderTimeoutMillis) * time.Millisecond
}

// RoleCacheTTL returns the role cache TTL; zero disables caching.
func (r RedisConfig) RoleCacheTTL() time.Duration {
	if r.RoleCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.RoleCacheTTLSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
