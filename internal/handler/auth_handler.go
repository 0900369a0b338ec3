package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Email and password are required"))
	}

	auth, err := h.authService.Login(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(auth, "Login successful"))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
	}

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("New password must be at least 8 characters"))
	}

	if err := h.authService.ChangePassword(accountID, req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Password changed successfully"))
}
