package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// fakeRow scans fixed string values or returns err.
type fakeRow struct {
	values []string
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		ptr, ok := d.(*string)
		if !ok {
			return errors.New("unexpected scan target")
		}
		*ptr = r.values[i]
	}
	return nil
}

// fakeQuerier records the last query and answers with row.
type fakeQuerier struct {
	row      fakeRow
	lastSQL  string
	lastArgs []any
	calls    int
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	q.lastSQL = sql
	q.lastArgs = args
	return q.row
}

const employeeID = "6f1c2c1e-1111-4a4a-8b8b-000000000001"

func TestStaffRoleRepository_GetByUserID(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []string{employeeID, " Admin ", "ACTIVE"}}}
	repo := &staffRoleRepository{db: q}

	got, err := repo.GetByUserID(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, domain.RoleStatusActive, got.Status)
	assert.Equal(t, domain.RoleSourceStaff, got.Source)
	assert.Equal(t, employeeID, got.Identifier)
	assert.Contains(t, q.lastSQL, "FROM employees")
	assert.Equal(t, []any{employeeID}, q.lastArgs)
}

func TestStaffRoleRepository_InvalidUUIDSkipsQuery(t *testing.T) {
	q := &fakeQuerier{}
	repo := &staffRoleRepository{db: q}

	_, err := repo.GetByUserID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	assert.Zero(t, q.calls)
}

func TestStaffRoleRepository_Errors(t *testing.T) {
	repo := &staffRoleRepository{db: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}
	_, err := repo.GetByUserID(context.Background(), employeeID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	boom := errors.New("conn closed")
	repo = &staffRoleRepository{db: &fakeQuerier{row: fakeRow{err: boom}}}
	_, err = repo.GetByUserID(context.Background(), employeeID)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestCustomerRoleRepository_GetByEmail(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []string{"Buyer@Example.com", "customer", "inactive"}}}
	repo := &customerRoleRepository{db: q}

	got, err := repo.GetByEmail(context.Background(), " buyer@example.com ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, got.Role)
	assert.Equal(t, domain.RoleStatusInactive, got.Status)
	assert.False(t, got.Active())
	assert.Equal(t, domain.RoleSourceCustomer, got.Source)
	assert.Equal(t, []any{"buyer@example.com"}, q.lastArgs)
	assert.Contains(t, q.lastSQL, "lower(email)=lower($1)")
}

func TestCustomerRoleRepository_Errors(t *testing.T) {
	q := &fakeQuerier{}
	repo := &customerRoleRepository{db: q}
	_, err := repo.GetByEmail(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	assert.Zero(t, q.calls)

	repo = &customerRoleRepository{db: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}
	_, err = repo.GetByEmail(context.Background(), "buyer@example.com")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestRoleStore_DelegatesAndHandlesMissingRepos(t *testing.T) {
	staff := &staffRoleRepository{db: &fakeQuerier{row: fakeRow{values: []string{employeeID, "gunsmith", "active"}}}}
	customers := &customerRoleRepository{db: &fakeQuerier{row: fakeRow{values: []string{"b@example.com", "customer", "active"}}}}
	store := NewRoleStore(staff, customers)

	got, err := store.LookupStaffRole(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGunsmith, got.Role)

	got, err = store.LookupCustomerRole(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, got.Role)

	empty := NewRoleStore(nil, nil)
	_, err = empty.LookupStaffRole(context.Background(), employeeID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	_, err = empty.LookupCustomerRole(context.Background(), "b@example.com")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}
