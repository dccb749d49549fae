package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ops-gate/internal/domain"
)

const userEndpoint = "/auth/v1/user"

// RemoteSessionResolver asks the hosted auth provider who owns the session token.
type RemoteSessionResolver struct {
	baseURL string
	apiKey  string
	cookie  string
	timeout time.Duration
}

// NewRemoteSessionResolver builds a resolver against the provider at baseURL.
func NewRemoteSessionResolver(baseURL, apiKey, cookie string, timeout time.Duration) *RemoteSessionResolver {
	return &RemoteSessionResolver{baseURL: baseURL, apiKey: apiKey, cookie: cookie, timeout: timeout}
}

type remoteUser struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	AppMetadata map[string]any `json:"app_metadata"`
}

// ResolveSession implements SessionResolver.
func (r *RemoteSessionResolver) ResolveSession(ctx context.Context, cookies CookieSource) (*domain.Session, error) {
	raw := cookies.Cookie(r.cookie)
	if raw == "" {
		return nil, ErrNoSession
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agent := fiber.Get(r.baseURL + userEndpoint)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	if r.apiKey != "" {
		agent.Set("apikey", r.apiKey)
	}
	if timeout := r.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("auth provider request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("auth provider request: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("auth provider returned status %d", code)
	}

	var user remoteUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode auth provider user: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("auth provider returned no user id")
	}

	sess := &domain.Session{Subject: user.ID, Email: user.Email, Claims: map[string]any{}}
	if user.Role != "" {
		sess.Claims["role"] = user.Role
	}
	if len(user.AppMetadata) > 0 {
		sess.Claims["app_metadata"] = user.AppMetadata
	}
	return sess, nil
}

// effectiveTimeout is the configured timeout, shortened to the context deadline.
func (r *RemoteSessionResolver) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}
