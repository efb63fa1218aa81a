package middleware

import (
	"log"
	"strings"

	"notetaker/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that verifies the bearer token and
// injects the resolved owner id into the request context. The 401 response
// is identical for a missing header, a malformed header and a failed
// verification; the specific reason is logged server-side only.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			log.Printf("Rejected request with malformed Authorization header")
			return unauthorized(c)
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("Rejected request with invalid token: %v", err)
			return unauthorized(c)
		}

		// Downstream handlers read the owner id from here, never from the
		// request body.
		c.Locals("user_id", userID)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
