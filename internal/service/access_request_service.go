package service

import (
	"errors"
	"strings"
	"time"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/bcrypt"
	"github.com/taravadumane/portal-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer sends access-request outcome notifications.
type Mailer interface {
	SendAccessApprovedEmail(to, name, loginURL string) error
	SendAccessDeniedEmail(to, name string) error
}

type AccessRequestService struct {
	db          *gorm.DB
	requestRepo *repository.AccessRequestRepository
	accountRepo *repository.AuthAccountRepository
	userRepo    *repository.UserRepository
	mailer      Mailer
	loginURL    string
	logger      *zap.Logger
}

func NewAccessRequestService(
	db *gorm.DB,
	requestRepo *repository.AccessRequestRepository,
	accountRepo *repository.AuthAccountRepository,
	userRepo *repository.UserRepository,
	mailer Mailer,
	loginURL string,
	logger *zap.Logger,
) *AccessRequestService {
	return &AccessRequestService{
		db:          db,
		requestRepo: requestRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		loginURL:    loginURL,
		logger:      logger,
	}
}

// Submit files an anonymous membership request. A request is rejected when
// the email already belongs to a member, or when one is already pending.
func (s *AccessRequestService) Submit(req models.AccessRequestSubmission) (*models.AccessRequest, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || email == "" {
		return nil, apperror.Validation("Name and email are required.")
	}
	if len(name) > 120 {
		return nil, apperror.Validation("Name must be 120 characters or less.")
	}

	account, err := s.accountRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if account != nil {
		// An orphaned account with no member profile does not block
		// re-requesting; approval will reuse it.
		_, profileErr := s.userRepo.GetByAccountID(account.ID)
		if profileErr == nil {
			return nil, apperror.Conflict("An account already exists for this email.")
		}
		if !errors.Is(profileErr, gorm.ErrRecordNotFound) {
			return nil, profileErr
		}
	}

	pending, err := s.requestRepo.PendingExistsForEmail(email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.Conflict("A pending request already exists for this email.")
	}

	request := &models.AccessRequest{
		Name:   name,
		Email:  email,
		Status: models.AccessStatusPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	s.logger.Info("access request submitted", zap.Uint("request_id", request.ID))
	return request, nil
}

// Approve provisions an account for a pending request and returns the
// temporary password exactly once. It is never persisted.
func (s *AccessRequestService) Approve(requestID, approverID uint) (*models.AccessApprovalResponse, error) {
	var (
		response    models.AccessApprovalResponse
		notifyEmail string
		notifyName  string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		requestRepo := s.requestRepo.WithTx(tx)
		accountRepo := s.accountRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		request, err := requestRepo.GetByID(requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Request not found.")
		}
		if err != nil {
			return err
		}

		if request.Status != models.AccessStatusPending {
			return apperror.Conflict("Request is not pending.")
		}
		if request.Email == "" || request.Name == "" {
			return apperror.Validation("Invalid request data.")
		}

		tempPassword, err := utils.GenerateTempPassword()
		if err != nil {
			return err
		}
		passwordHash, err := bcrypt.HashPassword(tempPassword)
		if err != nil {
			return err
		}

		account, err := accountRepo.GetByEmail(request.Email)
		switch {
		case err == nil:
			// Credential exists. A linked profile means this is a live
			// member; an orphaned credential gets its password reset.
			if _, profileErr := userRepo.GetByAccountID(account.ID); profileErr == nil {
				return apperror.Conflict("An account already exists for this email.")
			} else if !errors.Is(profileErr, gorm.ErrRecordNotFound) {
				return profileErr
			}
			account.PasswordHash = passwordHash
			account.DisplayName = request.Name
			if err := accountRepo.Update(account); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			account = &models.AuthAccount{
				Email:        request.Email,
				PasswordHash: passwordHash,
				DisplayName:  request.Name,
			}
			if err := accountRepo.Create(account); err != nil {
				return err
			}
		default:
			return err
		}

		user, err := userRepo.GetByAccountID(account.ID)
		switch {
		case err == nil:
			user.Name = request.Name
			user.Email = request.Email
			user.Roles = []string{models.RoleMember}
			user.MustChangePassword = true
			if err := userRepo.Update(user); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &models.User{
				AccountID:          account.ID,
				Name:               request.Name,
				Email:              request.Email,
				Roles:              []string{models.RoleMember},
				MustChangePassword: true,
			}
			if err := userRepo.Create(user); err != nil {
				return err
			}
		default:
			return err
		}

		now := time.Now()
		request.Status = models.AccessStatusApproved
		request.ApprovedAt = &now
		request.ApprovedBy = &approverID
		request.TempPasswordIssuedAt = &now
		if err := requestRepo.Update(request); err != nil {
			return err
		}

		notifyEmail = request.Email
		notifyName = request.Name
		response = models.AccessApprovalResponse{
			TempPassword: tempPassword,
			LoginURL:     s.loginURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("access request approved",
		zap.Uint("request_id", requestID),
		zap.Uint("approved_by", approverID),
	)
	go s.mailer.SendAccessApprovedEmail(notifyEmail, notifyName, s.loginURL)

	return &response, nil
}

// Deny marks a pending request denied. Terminal, like Approve.
func (s *AccessRequestService) Deny(requestID, denierID uint) error {
	var (
		notifyEmail string
		notifyName  string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		requestRepo := s.requestRepo.WithTx(tx)

		request, err := requestRepo.GetByID(requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Request not found.")
		}
		if err != nil {
			return err
		}

		if request.Status != models.AccessStatusPending {
			return apperror.Conflict("Request is not pending.")
		}

		now := time.Now()
		request.Status = models.AccessStatusDenied
		request.DeniedAt = &now
		request.DeniedBy = &denierID
		if err := requestRepo.Update(request); err != nil {
			return err
		}

		notifyEmail = request.Email
		notifyName = request.Name
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("access request denied",
		zap.Uint("request_id", requestID),
		zap.Uint("denied_by", denierID),
	)
	go s.mailer.SendAccessDeniedEmail(notifyEmail, notifyName)

	return nil
}

func (s *AccessRequestService) List() ([]models.AccessRequest, error) {
	return s.requestRepo.GetAll()
}
