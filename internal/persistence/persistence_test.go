package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ops-gate/internal/config"
)

func TestUnconfiguredDependencies(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, logger)
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
	assert.NotPanics(t, pg.Close)

	r := NewRedis(config.RedisConfig{}, logger)
	assert.False(t, r.Enabled())
	assert.ErrorIs(t, r.Ping(ctx), ErrNotConfigured)
	assert.NotPanics(t, r.Close)

	assert.NoError(t, RunMigrations(ctx, nil, "does-not-exist", logger))
}

func TestNewPostgres_RejectsBadDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.Error(t, err)
}
