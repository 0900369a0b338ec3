package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

// AuditLogRepository only appends and reads. There is deliberately no
// update or delete method.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) WithTx(tx *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: tx}
}

func (r *AuditLogRepository) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *AuditLogRepository) GetRecent(limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var entries []models.AuditLog
	err := r.db.Order("timestamp desc").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *AuditLogRepository) CountByEntity(entityType string, entityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error
	return count, err
}
