package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// TokenValidator checks dashboard bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*model.DashboardClaims, error)
	CheckAdminKey(key string) bool
}

// DashboardAuth accepts either a valid X-Admin-Key header or a dashboard
// bearer token. The token may also come from the "token" query parameter
// so browsers can authenticate the websocket upgrade.
func DashboardAuth(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.CheckAdminKey(c.Get("X-Admin-Key")) {
			c.Locals("dashboard_subject", "admin-key")
			return c.Next()
		}

		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("dashboard_subject", claims.Subject)
		c.Locals("dashboard_name", claims.Name)
		return c.Next()
	}
}

func AdminKey(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.CheckAdminKey(c.Get("X-Admin-Key")) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid admin key"})
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	if h := c.Get("Authorization"); h != "" {
		if tok := strings.TrimPrefix(h, "Bearer "); tok != h {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return c.Query("token")
}
