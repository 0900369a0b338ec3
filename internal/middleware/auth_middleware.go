package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/jwt"
	"gorm.io/gorm"
)

// AuthMiddleware validates the bearer token and loads the member profile
// into locals. A valid credential whose profile was never provisioned is
// rejected; tokens alone do not grant portal access.
func AuthMiddleware(userRepo *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization format"))
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid or expired token"))
		}

		accountID, ok := claims["account_id"].(float64)
		if !ok || accountID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid or expired token"))
		}

		user, err := userRepo.GetByAccountID(uint(accountID))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Your access has not been approved yet."))
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Something went wrong"))
		}

		c.Locals("user", user)
		c.Locals("accountID", uint(accountID))
		return c.Next()
	}
}

// RequireRoles gates a route to members holding at least one of the roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}
		if !user.HasAnyRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have permission to perform this action."))
		}
		return c.Next()
	}
}
