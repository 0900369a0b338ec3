package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	contributionID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	session, err := h.paymentService.CreateContributionCheckout(user, contributionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(session, "Checkout session created"))
}

// Webhook is called by Stripe, not by members; the signature header is the
// only authentication.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	if err := h.paymentService.HandleWebhook(c.Body(), c.Get("Stripe-Signature")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
