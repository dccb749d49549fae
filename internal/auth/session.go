package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// ErrNoSession is returned when the request carries no session cookie at all.
var ErrNoSession = errors.New("no session")

// SessionResolver resolves the caller's session from request cookies.
type SessionResolver interface {
	ResolveSession(ctx context.Context, cookies CookieSource) (*domain.Session, error)
}

// TokenSessionResolver verifies the session cookie locally with the shared secret.
type TokenSessionResolver struct {
	tokens *TokenManager
	cookie string
}

// NewTokenSessionResolver builds a resolver reading the named cookie.
func NewTokenSessionResolver(tokens *TokenManager, cookie string) *TokenSessionResolver {
	return &TokenSessionResolver{tokens: tokens, cookie: cookie}
}

// ResolveSession implements SessionResolver.
func (r *TokenSessionResolver) ResolveSession(ctx context.Context, cookies CookieSource) (*domain.Session, error) {
	raw := cookies.Cookie(r.cookie)
	if raw == "" {
		return nil, ErrNoSession
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims, err := r.tokens.ParseSessionToken(raw)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return claims.Session(), nil
}
