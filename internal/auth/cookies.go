package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// CookieSource gives read access to the cookies of one inbound request.
type CookieSource interface {
	Cookie(name string) string
}

// FiberCookies reads cookies from a fiber request context.
type FiberCookies struct {
	Ctx *fiber.Ctx
}

// Cookie returns the named cookie value or "".
func (f FiberCookies) Cookie(name string) string {
	if f.Ctx == nil {
		return ""
	}
	return f.Ctx.Cookies(name)
}

// RequestCookies reads cookies from a net/http request.
type RequestCookies struct {
	Request *http.Request
}

// Cookie returns the named cookie value or "".
func (r RequestCookies) Cookie(name string) string {
	if r.Request == nil {
		return ""
	}
	c, err := r.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// CookieMap is a fixed set of cookies, used by the CLI and tests.
type CookieMap map[string]string

// Cookie returns the named cookie value or "".
func (m CookieMap) Cookie(name string) string {
	return m[name]
}
