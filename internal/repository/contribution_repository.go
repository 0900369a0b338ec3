package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

type ContributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) WithTx(tx *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: tx}
}

func (r *ContributionRepository) Create(contribution *models.Contribution) error {
	return r.db.Create(contribution).Error
}

func (r *ContributionRepository) GetByID(id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	err := r.db.First(&contribution, id).Error
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (r *ContributionRepository) Update(contribution *models.Contribution) error {
	return r.db.Save(contribution).Error
}

func (r *ContributionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contribution{}, id).Error
}

// GetAll lists contributions newest first, optionally filtered.
func (r *ContributionRepository) GetAll(year int, userID uint) ([]models.Contribution, error) {
	query := r.db.Order("created_at desc")
	if year > 0 {
		query = query.Where("year = ?", year)
	}
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	var contributions []models.Contribution
	err := query.Find(&contributions).Error
	return contributions, err
}

func (r *ContributionRepository) GetByUserID(userID uint) ([]models.Contribution, error) {
	var contributions []models.Contribution
	err := r.db.Where("user_id = ?", userID).Order("year desc").Find(&contributions).Error
	return contributions, err
}
