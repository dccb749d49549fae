package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// CustomerRoleRepository reads role assignments of retail customers.
type CustomerRoleRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.RoleAssignment, error)
}

type customerRoleRepository struct {
	db rowQuerier
}

// NewCustomerRoleRepository returns a Postgres-backed implementation.
func NewCustomerRoleRepository(pool *pgxpool.Pool) CustomerRoleRepository {
	return &customerRoleRepository{db: pool}
}

func (r *customerRoleRepository) GetByEmail(ctx context.Context, email string) (*domain.RoleAssignment, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrRoleNotFound
	}

	const query = `
        SELECT email, role, COALESCE(status, 'active')
        FROM customers WHERE lower(email)=lower($1)
        LIMIT 1`

	var (
		assignment domain.RoleAssignment
		role       string
		status     string
	)
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&assignment.Identifier,
		&role,
		&status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("query customer role: %w", err)
	}

	assignment.Role = normalizeRole(role)
	assignment.Status = normalizeStatus(status)
	assignment.Source = domain.RoleSourceCustomer
	return &assignment, nil
}
