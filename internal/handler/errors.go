package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/pkg/apperror"
)

// respondError maps a service error onto the API envelope. Unclassified
// errors never leak their message to the client.
func respondError(c *fiber.Ctx, err error) error {
	status := apperror.StatusCode(err)

	appErr, ok := apperror.As(err)
	if !ok {
		return c.Status(status).JSON(models.ErrorResponse("Something went wrong"))
	}

	response := models.Response{
		Success:   false,
		Error:     appErr.Message,
		Code:      appErr.Code,
		Retryable: appErr.Retryable,
	}
	if appErr.Kind == apperror.KindRateLimited && appErr.RetryAfterSeconds > 0 {
		c.Set("Retry-After", strconv.Itoa(appErr.RetryAfterSeconds))
	}
	return c.Status(status).JSON(response)
}

// currentUser reads the profile AuthMiddleware stored on the context.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
	}
	return user, nil
}

// parseIDParam reads a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid " + name + " parameter.")
	}
	return uint(id), nil
}
