package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-bridge/internal/api/dto"
	"github.com/spec-kit/moderation-bridge/internal/auth"
	"github.com/spec-kit/moderation-bridge/internal/config"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// AuthHandler exchanges the shared operator token for a JWT.
type AuthHandler struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthHandler returns a new handler instance.
func NewAuthHandler(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// Login validates the operator token and issues a JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid request body", nil)
	}

	if !auth.VerifyAdminToken(h.cfg.AdminTokenHash, req.Token) {
		return util.NewUnauthorized("invalid operator token")
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		return util.NewInternalError(err)
	}

	return c.JSON(dto.LoginResponse{AccessToken: token, ExpiresAt: expiresAt})
}
