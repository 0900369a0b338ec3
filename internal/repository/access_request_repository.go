package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

type AccessRequestRepository struct {
	db *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) *AccessRequestRepository {
	return &AccessRequestRepository{db: db}
}

func (r *AccessRequestRepository) WithTx(tx *gorm.DB) *AccessRequestRepository {
	return &AccessRequestRepository{db: tx}
}

func (r *AccessRequestRepository) Create(request *models.AccessRequest) error {
	return r.db.Create(request).Error
}

func (r *AccessRequestRepository) GetByID(id uint) (*models.AccessRequest, error) {
	var request models.AccessRequest
	err := r.db.First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *AccessRequestRepository) PendingExistsForEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AccessRequest{}).
		Where("email = ? AND status = ?", email, models.AccessStatusPending).
		Count(&count).Error
	return count > 0, err
}

// GetAll returns requests newest first.
func (r *AccessRequestRepository) GetAll() ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := r.db.Order("created_at desc").Find(&requests).Error
	return requests, err
}

func (r *AccessRequestRepository) Update(request *models.AccessRequest) error {
	return r.db.Save(request).Error
}
