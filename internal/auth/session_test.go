package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSessionResolver(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	resolver := NewTokenSessionResolver(tm, "sb-access-token")

	_, err := resolver.ResolveSession(context.Background(), CookieMap{})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": "garbage"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)

	token, _, err := tm.IssueSessionToken("user-9", "u9@example.com", "")
	require.NoError(t, err)
	sess, err := resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": token})
	require.NoError(t, err)
	assert.Equal(t, "user-9", sess.Subject)
	assert.Equal(t, "u9@example.com", sess.Email)
}

func TestTokenSessionResolver_CancelledContext(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	resolver := NewTokenSessionResolver(tm, "sb-access-token")
	token, _, err := tm.IssueSessionToken("user-9", "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = resolver.ResolveSession(ctx, CookieMap{"sb-access-token": token})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCookieSources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "a", Value: "1"})

	assert.Equal(t, "1", RequestCookies{Request: req}.Cookie("a"))
	assert.Equal(t, "", RequestCookies{Request: req}.Cookie("b"))
	assert.Equal(t, "", RequestCookies{}.Cookie("a"))
	assert.Equal(t, "", FiberCookies{}.Cookie("a"))
	assert.Equal(t, "2", CookieMap{"a": "2"}.Cookie("a"))
}
