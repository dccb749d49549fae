package auth

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ops-gate/internal/domain"
)

var (
	// ErrClaimsAbsent means no embedded-role token was presented.
	ErrClaimsAbsent = errors.New("claims token absent")
	// ErrClaimsMalformed means the token could not be decoded.
	ErrClaimsMalformed = errors.New("claims token malformed")
	// ErrRoleClaimMissing means the token decoded but carries no usable role.
	ErrRoleClaimMissing = errors.New("role claim missing")
)

// RoleDecoder extracts a routing role from an access token.
type RoleDecoder func(token string) (domain.Role, error)

// DecodeEmbeddedRole reads the application role from an access token without verifying
// its signature. The result is a routing hint only and must never grant access on its own.
//
// Lookup order: app_metadata.role, user_role, role. The provider's generic
// "authenticated" value is reported as ErrRoleClaimMissing.
func DecodeEmbeddedRole(token string) (domain.Role, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", ErrClaimsAbsent
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClaimsMalformed, err)
	}

	return RoleFromClaims(claims)
}

// RoleFromClaims picks the application role out of decoded claims, in the same order as
// DecodeEmbeddedRole.
func RoleFromClaims(claims map[string]any) (domain.Role, error) {
	if meta, ok := claims["app_metadata"].(map[string]any); ok {
		if role := roleFrom(meta["role"]); role != "" {
			return role, nil
		}
	}
	if role := roleFrom(claims["user_role"]); role != "" {
		return role, nil
	}
	if role := roleFrom(claims["role"]); role != "" {
		return role, nil
	}
	return "", ErrRoleClaimMissing
}

func roleFrom(v any) domain.Role {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	role := domain.Role(strings.ToLower(strings.TrimSpace(s)))
	if role.IsPlaceholder() {
		return ""
	}
	return role
}
