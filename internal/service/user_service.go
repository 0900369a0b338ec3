package service

import (
	"errors"
	"strings"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Member not found.")
	}
	return user, err
}

func (s *UserService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Member not found.")
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name cannot be empty.")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = normalizeOptional(req.Phone)
	}
	if req.FamilyBranch != nil {
		user.FamilyBranch = normalizeOptional(req.FamilyBranch)
	}
	if req.City != nil {
		user.City = normalizeOptional(req.City)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListMembers() ([]models.MemberResponse, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberResponse, 0, len(users))
	for _, u := range users {
		members = append(members, models.MemberResponse{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Phone:        u.Phone,
			FamilyBranch: u.FamilyBranch,
			City:         u.City,
		})
	}
	return members, nil
}
