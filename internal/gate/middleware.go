package gate

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/domain"
)

const principalKey = "gate_principal"

type principalCtxKey struct{}

// Handler returns the gate as fiber middleware. fiber hands over the path still
// percent-encoded, so it is decoded here the way net/http decodes r.URL.Path.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := g.DecideEscaped(c.UserContext(), c.Path(), auth.FiberCookies{Ctx: c})
		if d.Action == ActionRedirect {
			return c.Redirect(d.Location, fiber.StatusTemporaryRedirect)
		}
		if d.Principal != nil {
			c.Locals(principalKey, d.Principal)
			c.SetUserContext(WithPrincipal(c.UserContext(), d.Principal))
		}
		return c.Next()
	}
}

// Wrap returns the gate as net/http middleware around next.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.Context(), r.URL.Path, auth.RequestCookies{Request: r})
		if d.Action == ActionRedirect {
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}
		if d.Principal != nil {
			r = r.WithContext(WithPrincipal(r.Context(), d.Principal))
		}
		next.ServeHTTP(w, r)
	})
}

// WithPrincipal returns a child context carrying principal.
func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	if principal == nil {
		return ctx
	}
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

// PrincipalFromContext retrieves the principal stored by Wrap or Handler.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return principal, ok && principal != nil
}

// PrincipalFromLocals retrieves the principal stored by Handler.
func PrincipalFromLocals(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
