package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	validator           *utils.Validator
}

func NewAnnouncementHandler(announcementService *service.AnnouncementService, validator *utils.Validator) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		validator:           validator,
	}
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Title and content are required"))
	}

	announcement, err := h.announcementService.Create(user.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(announcement, "Announcement posted"))
}

func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	announcements, err := h.announcementService.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(announcements, ""))
}

func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	announcementID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.announcementService.Delete(announcementID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Announcement deleted"))
}
