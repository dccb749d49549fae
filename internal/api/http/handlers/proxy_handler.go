package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/ops-gate/pkg/util"
)

// ProxyHandler forwards requests the gate let through to the dashboard upstream.
type ProxyHandler struct {
	upstream string
	logger   *zap.Logger
}

// NewProxyHandler constructs handler. An empty upstream answers every request with 404.
func NewProxyHandler(upstream string, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{upstream: upstream, logger: logger}
}

// Forward proxies the request verbatim, including query string.
func (h *ProxyHandler) Forward(c *fiber.Ctx) error {
	if h.upstream == "" {
		return apperrors.NewNotFound("route", map[string]any{"path": c.Path()})
	}
	if err := proxy.Do(c, h.upstream+c.OriginalURL()); err != nil {
		h.logger.Warn("upstream request failed", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.NewBadGateway(err)
	}
	return nil
}
