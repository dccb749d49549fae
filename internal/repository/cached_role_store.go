package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// RoleLookup is the read side of a role store.
type RoleLookup interface {
	LookupStaffRole(ctx context.Context, userID string) (*domain.RoleAssignment, error)
	LookupCustomerRole(ctx context.Context, email string) (*domain.RoleAssignment, error)
}

// CachedRoleStore is a Redis read-through cache in front of a RoleLookup. Only hits are
// cached; Redis failures fall through to the underlying store.
type CachedRoleStore struct {
	next   RoleLookup
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCachedRoleStore wraps next with a cache of the given TTL.
func NewCachedRoleStore(next RoleLookup, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *CachedRoleStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRoleStore{next: next, client: client, ttl: ttl, prefix: "gate:role:", logger: logger}
}

// LookupStaffRole implements RoleLookup.
func (s *CachedRoleStore) LookupStaffRole(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	return s.lookup(ctx, s.key(domain.RoleSourceStaff, userID), func() (*domain.RoleAssignment, error) {
		return s.next.LookupStaffRole(ctx, userID)
	})
}

// LookupCustomerRole implements RoleLookup.
func (s *CachedRoleStore) LookupCustomerRole(ctx context.Context, email string) (*domain.RoleAssignment, error) {
	return s.lookup(ctx, s.key(domain.RoleSourceCustomer, strings.ToLower(email)), func() (*domain.RoleAssignment, error) {
		return s.next.LookupCustomerRole(ctx, email)
	})
}

func (s *CachedRoleStore) key(source domain.RoleSource, id string) string {
	return s.prefix + string(source) + ":" + id
}

func (s *CachedRoleStore) lookup(ctx context.Context, key string, load func() (*domain.RoleAssignment, error)) (*domain.RoleAssignment, error) {
	if s.client == nil || s.ttl <= 0 {
		return load()
	}

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var assignment domain.RoleAssignment
		if jsonErr := json.Unmarshal(data, &assignment); jsonErr == nil {
			return &assignment, nil
		}
		s.logger.Warn("discarding unreadable cached role", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("role cache get failed", zap.String("key", key), zap.Error(err))
	}

	assignment, err := load()
	if err != nil || assignment == nil {
		return assignment, err
	}

	if payload, jsonErr := json.Marshal(assignment); jsonErr == nil {
		if setErr := s.client.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			s.logger.Warn("role cache set failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return assignment, nil
}
