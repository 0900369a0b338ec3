package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService bridges Stripe Checkout and the contribution ledger.
type PaymentService struct {
	stripeService    *payment.StripeService
	contributionRepo *repository.ContributionRepository
	ledger           *LedgerService
	webhookSecret    string
	appBaseURL       string
	logger           *zap.Logger
}

func NewPaymentService(
	stripeService *payment.StripeService,
	contributionRepo *repository.ContributionRepository,
	ledger *LedgerService,
	webhookSecret string,
	appBaseURL string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		stripeService:    stripeService,
		contributionRepo: contributionRepo,
		ledger:           ledger,
		webhookSecret:    webhookSecret,
		appBaseURL:       appBaseURL,
		logger:           logger,
	}
}

// CreateContributionCheckout opens a Checkout session for the member's own
// pending contribution.
func (s *PaymentService) CreateContributionCheckout(user *models.User, contributionID uint) (*models.CheckoutSession, error) {
	contribution, err := s.contributionRepo.GetByID(contributionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Contribution not found.")
	}
	if err != nil {
		return nil, err
	}

	if contribution.UserID != user.ID {
		return nil, apperror.Forbidden("You can only pay your own contributions.")
	}
	if contribution.Status != models.ContributionStatusPending {
		return nil, apperror.Conflict("This contribution has already been paid.")
	}

	description := fmt.Sprintf("Annual contribution %d", contribution.Year)
	session, err := s.stripeService.CreateContributionCheckout(
		user.Email,
		description,
		contribution.Amount,
		s.appBaseURL,
		map[string]string{
			"contribution_id": strconv.FormatUint(uint64(contribution.ID), 10),
			"user_id":         strconv.FormatUint(uint64(user.ID), 10),
		},
	)
	if err != nil {
		return nil, apperror.Upstream("payment_provider", "Could not start the payment. Please try again.", true, err)
	}

	return &models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// HandleWebhook verifies the Stripe signature and settles the referenced
// contribution on checkout.session.completed. Settlement is idempotent, so
// Stripe retries are safe.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return apperror.Unauthenticated("Invalid webhook signature.")
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperror.Validation("Malformed webhook payload.")
	}

	contributionID, err := strconv.ParseUint(session.Metadata["contribution_id"], 10, 64)
	if err != nil {
		s.logger.Warn("webhook session without contribution metadata",
			zap.String("session_id", session.ID),
		)
		return nil
	}
	userID, _ := strconv.ParseUint(session.Metadata["user_id"], 10, 64)

	if err := s.ledger.MarkContributionPaid(uint(userID), uint(contributionID), "online"); err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			s.logger.Warn("webhook for missing contribution",
				zap.Uint64("contribution_id", contributionID),
			)
			return nil
		}
		return err
	}

	s.logger.Info("contribution settled via checkout",
		zap.Uint64("contribution_id", contributionID),
		zap.String("session_id", session.ID),
	)
	return nil
}
