package repository

import (
	"context"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// RoleStore combines the staff and customer role tables for the request gate.
type RoleStore struct {
	staff     StaffRoleRepository
	customers CustomerRoleRepository
}

// NewRoleStore composes the two role repositories.
func NewRoleStore(staff StaffRoleRepository, customers CustomerRoleRepository) *RoleStore {
	return &RoleStore{staff: staff, customers: customers}
}

// LookupStaffRole returns the staff role of userID or domain.ErrRoleNotFound.
func (s *RoleStore) LookupStaffRole(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	if s.staff == nil {
		return nil, domain.ErrRoleNotFound
	}
	return s.staff.GetByUserID(ctx, userID)
}

// LookupCustomerRole returns the customer role of email or domain.ErrRoleNotFound.
func (s *RoleStore) LookupCustomerRole(ctx context.Context, email string) (*domain.RoleAssignment, error) {
	if s.customers == nil {
		return nil, domain.ErrRoleNotFound
	}
	return s.customers.GetByEmail(ctx, email)
}
