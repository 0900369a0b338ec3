package service

import (
	"errors"
	"strings"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"gorm.io/gorm"
)

type AnnouncementService struct {
	announcementRepo *repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo *repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcementRepo: announcementRepo}
}

func (s *AnnouncementService) Create(actorID uint, req models.AnnouncementRequest) (*models.Announcement, error) {
	announcement := &models.Announcement{
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		CreatedBy: actorID,
	}
	if err := s.announcementRepo.Create(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *AnnouncementService) GetAll() ([]models.Announcement, error) {
	return s.announcementRepo.GetAll()
}

func (s *AnnouncementService) Delete(id uint) error {
	_, err := s.announcementRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Announcement not found.")
	}
	if err != nil {
		return err
	}
	return s.announcementRepo.Delete(id)
}
