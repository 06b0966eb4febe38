package middleware

import (
	"strings"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the JWT token, checks the strict single-session
// version against the DB, and stores the Actor in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals("actor", model.Actor{
			ID:          claims.UserID.String(),
			Name:        claims.Name,
			Email:       claims.Email,
			RoleCode:    user.RoleCode(),
			IsSuperuser: user.IsSuperuser,
		})

		return c.Next()
	}
}

// RequireRole gates a route on an explicit list of role codes.
// Superusers bypass the check entirely.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals("actor").(model.Actor)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		if actor.IsSuperuser {
			return c.Next()
		}

		for _, role := range allowedRoles {
			if actor.RoleCode == role {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Access denied. Requires role: " + strings.Join(allowedRoles, ", "),
		})
	}
}
