package service

import (
	"errors"
	"strings"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/utils"
	"gorm.io/gorm"
)

type EventService struct {
	eventRepo *repository.EventRepository
}

func NewEventService(eventRepo *repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) Create(actorID uint, req models.EventRequest) (*models.Event, error) {
	eventDate, err := utils.ParseDate(req.EventDate)
	if err != nil {
		return nil, apperror.Validation("event_date must be a valid date.")
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		EventDate:   eventDate,
		CreatedBy:   actorID,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetAll() ([]models.Event, error) {
	return s.eventRepo.GetAll()
}

func (s *EventService) Get(id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Event not found.")
	}
	return event, err
}

func (s *EventService) Update(id uint, req models.EventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Event not found.")
	}
	if err != nil {
		return nil, err
	}

	eventDate, err := utils.ParseDate(req.EventDate)
	if err != nil {
		return nil, apperror.Validation("event_date must be a valid date.")
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Description = strings.TrimSpace(req.Description)
	event.EventDate = eventDate
	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(id uint) error {
	_, err := s.eventRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Event not found.")
	}
	if err != nil {
		return err
	}
	return s.eventRepo.Delete(id)
}
