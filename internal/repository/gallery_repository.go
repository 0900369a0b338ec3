package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) WithTx(tx *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: tx}
}

func (r *GalleryRepository) Create(photo *models.GalleryPhoto) error {
	return r.db.Create(photo).Error
}

func (r *GalleryRepository) GetByID(id uint) (*models.GalleryPhoto, error) {
	var photo models.GalleryPhoto
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *GalleryRepository) Delete(id uint) error {
	return r.db.Delete(&models.GalleryPhoto{}, id).Error
}

func (r *GalleryRepository) GetRecent(limit int) ([]models.GalleryPhoto, error) {
	if limit <= 0 {
		limit = 200
	}
	var photos []models.GalleryPhoto
	err := r.db.Order("created_at desc").Limit(limit).Find(&photos).Error
	return photos, err
}
