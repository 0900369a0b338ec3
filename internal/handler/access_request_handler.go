package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

type AccessRequestHandler struct {
	accessService *service.AccessRequestService
	validator     *utils.Validator
}

func NewAccessRequestHandler(accessService *service.AccessRequestService, validator *utils.Validator) *AccessRequestHandler {
	return &AccessRequestHandler{
		accessService: accessService,
		validator:     validator,
	}
}

// Submit is the only unauthenticated write endpoint; the per-IP rate
// limiter in front of it is what keeps it abuse-safe.
func (h *AccessRequestHandler) Submit(c *fiber.Ctx) error {
	var req models.AccessRequestSubmission
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("A valid name and email are required"))
	}

	request, err := h.accessService.Submit(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(request, "Access request submitted"))
}

func (h *AccessRequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.accessService.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(requests, ""))
}

func (h *AccessRequestHandler) Approve(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	approval, err := h.accessService.Approve(requestID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(approval, "Access request approved"))
}

func (h *AccessRequestHandler) Deny(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.accessService.Deny(requestID, user.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Access request denied"))
}
