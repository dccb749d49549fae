package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != userEndpoint {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":           "6f1c2c1e-1111-4a4a-8b8b-000000000001",
				"email":        "crew@example.com",
				"role":         "authenticated",
				"app_metadata": map[string]any{"role": "gunsmith"},
			})
		case "Bearer empty-user":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteSessionResolver(t *testing.T) {
	srv := newProviderServer(t)
	resolver := NewRemoteSessionResolver(srv.URL, "anon-key", "sb-access-token", time.Second)

	sess, err := resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": "good-token"})
	require.NoError(t, err)
	assert.Equal(t, "6f1c2c1e-1111-4a4a-8b8b-000000000001", sess.Subject)
	assert.Equal(t, "crew@example.com", sess.Email)
	assert.Equal(t, map[string]any{"role": "gunsmith"}, sess.Claims["app_metadata"])
}

func TestRemoteSessionResolver_Failures(t *testing.T) {
	srv := newProviderServer(t)
	resolver := NewRemoteSessionResolver(srv.URL, "anon-key", "sb-access-token", time.Second)

	_, err := resolver.ResolveSession(context.Background(), CookieMap{})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": "revoked"})
	assert.Error(t, err)

	_, err = resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": "empty-user"})
	assert.Error(t, err)

	wrongKey := NewRemoteSessionResolver(srv.URL, "other", "sb-access-token", time.Second)
	_, err = wrongKey.ResolveSession(context.Background(), CookieMap{"sb-access-token": "good-token"})
	assert.Error(t, err)

	unreachable := NewRemoteSessionResolver("http://127.0.0.1:1", "anon-key", "sb-access-token", 200*time.Millisecond)
	_, err = unreachable.ResolveSession(context.Background(), CookieMap{"sb-access-token": "good-token"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestRemoteSessionResolver_EffectiveTimeout(t *testing.T) {
	resolver := NewRemoteSessionResolver("http://example.invalid", "", "c", 5*time.Second)
	assert.Equal(t, 5*time.Second, resolver.effectiveTimeout(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.LessOrEqual(t, resolver.effectiveTimeout(ctx), time.Second)

	noTimeout := NewRemoteSessionResolver("http://example.invalid", "", "c", 0)
	assert.Equal(t, time.Duration(0), noTimeout.effectiveTimeout(context.Background()))
}

func TestRemoteSessionResolver_UnsupportedSchemeFailsCleanly(t *testing.T) {
	resolver := NewRemoteSessionResolver("ftp://auth.example.com", "anon-key", "sb-access-token", time.Second)

	for i := 0; i < 3; i++ {
		var err error
		assert.NotPanics(t, func() {
			_, err = resolver.ResolveSession(context.Background(), CookieMap{"sb-access-token": "good-token"})
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth provider request")
	}
}
