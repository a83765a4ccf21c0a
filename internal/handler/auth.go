package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Token exchanges the X-Admin-Key header for a dashboard token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req model.TokenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	resp, err := h.authSvc.IssueDashboardToken(c.Get("X-Admin-Key"), req.Name)
	if err != nil {
		return authError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidAdminKey):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
