package service

import (
	"errors"
	"strings"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/bcrypt"
	"github.com/taravadumane/portal-backend/pkg/jwt"
	"gorm.io/gorm"
)

type AuthService struct {
	accountRepo *repository.AuthAccountRepository
	userRepo    *repository.UserRepository
}

func NewAuthService(accountRepo *repository.AuthAccountRepository, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{accountRepo: accountRepo, userRepo: userRepo}
}

// Login responds identically for an unknown email and a wrong password.
func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accountRepo.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthenticated("Invalid email or password.")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.ComparePassword(account.PasswordHash, req.Password); err != nil {
		return nil, apperror.Unauthenticated("Invalid email or password.")
	}

	user, err := s.userRepo.GetByAccountID(account.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Credential exists but no approved profile: not a portal member.
		return nil, apperror.Forbidden("Your access has not been approved yet.")
	}
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:              token,
		User:               *user,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *AuthService) ChangePassword(accountID uint, req models.ChangePasswordRequest) error {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.ComparePassword(account.PasswordHash, req.CurrentPassword); err != nil {
		return apperror.Unauthenticated("Current password is incorrect.")
	}

	hash, err := bcrypt.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	if err := s.accountRepo.Update(account); err != nil {
		return err
	}

	user, err := s.userRepo.GetByAccountID(accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.MustChangePassword {
		user.MustChangePassword = false
		return s.userRepo.Update(user)
	}
	return nil
}
