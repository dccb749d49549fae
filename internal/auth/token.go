package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// TokenManager issues and validates session tokens signed with the auth provider's secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// SessionClaims describes the session token payload. The shape follows the hosted
// provider: top-level role is always "authenticated", the app role lives in app_metadata.
type SessionClaims struct {
	Email       string         `json:"email,omitempty"`
	Role        string         `json:"role,omitempty"`
	UserRole    string         `json:"user_role,omitempty"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Session converts verified claims into a domain session.
func (c *SessionClaims) Session() *domain.Session {
	sess := &domain.Session{
		Subject: c.Subject,
		Email:   c.Email,
		Claims:  map[string]any{},
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	if c.Role != "" {
		sess.Claims["role"] = c.Role
	}
	if c.UserRole != "" {
		sess.Claims["user_role"] = c.UserRole
	}
	if len(c.AppMetadata) > 0 {
		sess.Claims["app_metadata"] = c.AppMetadata
	}
	return sess
}

// IssueSessionToken builds and signs a token for the subject. An empty appRole leaves
// app_metadata unset.
func (tm *TokenManager) IssueSessionToken(subjectID, email string, appRole domain.Role) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &SessionClaims{
		Email: email,
		Role:  string(domain.RoleAuthenticated),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	if appRole != "" {
		claims.AppMetadata = map[string]any{"role": string(appRole)}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseSessionToken validates and returns claims.
func (tm *TokenManager) ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
