package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validator,
	}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Title and event_date are required"))
	}

	event, err := h.eventService.Create(user.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event created"))
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.eventService.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(events, ""))
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, ""))
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Title and event_date are required"))
	}

	event, err := h.eventService.Update(eventID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event updated"))
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.eventService.Delete(eventID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event deleted"))
}
