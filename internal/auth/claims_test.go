package auth

import (
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ops-gate/internal/domain"
)

func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

func TestDecodeEmbeddedRole(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    domain.Role
		wantErr error
	}{
		{
			name:   "app metadata role",
			claims: jwt.MapClaims{"role": "authenticated", "app_metadata": map[string]any{"role": "admin"}},
			want:   domain.RoleAdmin,
		},
		{
			name:   "user_role claim",
			claims: jwt.MapClaims{"role": "authenticated", "user_role": "gunsmith"},
			want:   domain.RoleGunsmith,
		},
		{
			name:   "top level role normalised",
			claims: jwt.MapClaims{"role": " Super Admin "},
			want:   domain.RoleSuperAdmin,
		},
		{
			name:    "only placeholder",
			claims:  jwt.MapClaims{"role": "authenticated"},
			wantErr: ErrRoleClaimMissing,
		},
		{
			name:    "role of wrong type",
			claims:  jwt.MapClaims{"app_metadata": map[string]any{"role": 7}},
			wantErr: ErrRoleClaimMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := DecodeEmbeddedRole(unsignedToken(t, tt.claims))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, role)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestDecodeEmbeddedRole_AbsentAndMalformedAreDistinct(t *testing.T) {
	_, err := DecodeEmbeddedRole("")
	assert.ErrorIs(t, err, ErrClaimsAbsent)

	_, err = DecodeEmbeddedRole("   ")
	assert.ErrorIs(t, err, ErrClaimsAbsent)

	_, err = DecodeEmbeddedRole("definitely.not.jwt")
	assert.ErrorIs(t, err, ErrClaimsMalformed)
	assert.NotErrorIs(t, err, ErrClaimsAbsent)
}

func TestDecodeEmbeddedRole_AcceptsBearerPrefix(t *testing.T) {
	token := unsignedToken(t, jwt.MapClaims{"app_metadata": map[string]any{"role": "ceo"}})
	role, err := DecodeEmbeddedRole("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCEO, role)
}

func TestRoleFromClaims(t *testing.T) {
	role, err := RoleFromClaims(map[string]any{"role": "authenticated", "app_metadata": map[string]any{"role": "Auditor"}})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAuditor, role)

	role, err = RoleFromClaims(map[string]any{"user_role": "dev"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDev, role)

	_, err = RoleFromClaims(map[string]any{"role": "authenticated"})
	assert.ErrorIs(t, err, ErrRoleClaimMissing)

	_, err = RoleFromClaims(nil)
	assert.ErrorIs(t, err, ErrRoleClaimMissing)
}
