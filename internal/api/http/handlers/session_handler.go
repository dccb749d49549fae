package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ops-gate/internal/api/dto"
	"github.com/spec-kit/ops-gate/internal/gate"
	apperrors "github.com/spec-kit/ops-gate/pkg/util"
)

// SessionHandler exposes the caller's resolved identity to the dashboard.
type SessionHandler struct{}

// NewSessionHandler constructs handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Current handles GET /gate/session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	principal, ok := gate.PrincipalFromLocals(c)
	if !ok {
		return apperrors.NewUnauthorized("no session")
	}

	resp := dto.SessionResponse{
		UserID: principal.Session.Subject,
		Email:  principal.Session.Email,
		Role:   string(principal.Role),
	}
	if !principal.Session.ExpiresAt.IsZero() {
		exp := principal.Session.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return c.JSON(fiber.Map{"data": resp})
}
