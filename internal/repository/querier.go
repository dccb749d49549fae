package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// rowQuerier is the slice of *pgxpool.Pool the role repositories need.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
