package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// StaffRoleRepository reads role assignments of staff members.
type StaffRoleRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.RoleAssignment, error)
}

type staffRoleRepository struct {
	db rowQuerier
}

// NewStaffRoleRepository returns a Postgres-backed implementation.
func NewStaffRoleRepository(pool *pgxpool.Pool) StaffRoleRepository {
	return &staffRoleRepository{db: pool}
}

func (r *staffRoleRepository) GetByUserID(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	id, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}

	const query = `
        SELECT user_uuid::text, role, COALESCE(status, 'active')
        FROM employees WHERE user_uuid=$1`

	var (
		assignment domain.RoleAssignment
		role       string
		status     string
	)
	if err := r.db.QueryRow(ctx, query, id.String()).Scan(
		&assignment.Identifier,
		&role,
		&status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("query staff role: %w", err)
	}

	assignment.Role = normalizeRole(role)
	assignment.Status = normalizeStatus(status)
	assignment.Source = domain.RoleSourceStaff
	return &assignment, nil
}

func normalizeRole(role string) domain.Role {
	return domain.Role(strings.ToLower(strings.TrimSpace(role)))
}

func normalizeStatus(status string) domain.RoleStatus {
	return domain.RoleStatus(strings.ToLower(strings.TrimSpace(status)))
}
