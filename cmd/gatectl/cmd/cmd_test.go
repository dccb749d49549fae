package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/domain"
	"github.com/spec-kit/ops-gate/internal/gate"
)

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, gate.DefaultRoutes()))

	out := buf.String()
	assert.Regexp(t, `sign-in\s+/auth\n`, out)
	assert.Regexp(t, `staff-only\s+/TGR\n`, out)
	assert.Regexp(t, `landing\s+ceo\s+/admin/reports/dashboard/ceo\n`, out)
}

func TestPrintDecision(t *testing.T) {
	var buf bytes.Buffer
	printDecision(&buf, gate.Decision{Action: gate.ActionRedirect, Location: "/auth?next=%2F", Reason: gate.ReasonSignInRequired})
	assert.Equal(t, "redirect /auth?next=%2F (reason=sign_in_required)\n", buf.String())

	buf.Reset()
	printDecision(&buf, gate.Decision{
		Action: gate.ActionPass,
		Reason: gate.ReasonAuthorized,
		Principal: &domain.Principal{
			Session: domain.Session{Subject: "u-1"},
			Role:    domain.RoleGunsmith,
		},
	})
	assert.Equal(t, "pass (reason=authorized) user=u-1 role=gunsmith\n", buf.String())
}

func TestDecideCommand(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("GATE_ROUTES_FILE", "")
	t.Setenv("GATE_PROTECTED_PATHS", "")
	t.Setenv("GATE_FAILURE_POLICY", "")

	token, _, err := auth.NewTokenManager("cli-secret", 5).IssueSessionToken("u-9", "ceo@example.com", domain.RoleCEO)
	require.NoError(t, err)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"decide", "--path", "/", "--session", token, "--access-token", token})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "redirect /admin/reports/dashboard/ceo (reason=role_landing)\n", buf.String())
}
