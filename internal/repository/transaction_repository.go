package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

// Referential cleanup on delete is bounded; the mirror is one-to-one in
// practice so the cap is never expected to matter.
const maxReferenceCleanup = 25

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	return r.db.Create(transaction).Error
}

func (r *TransactionRepository) GetByReference(referenceType string, referenceID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	return r.db.Save(transaction).Error
}

// DeleteByReference removes the mirror rows for a deleted source entity.
func (r *TransactionRepository) DeleteByReference(referenceType string, referenceID uint) error {
	var ids []uint
	err := r.db.Model(&models.Transaction{}).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Limit(maxReferenceCleanup).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Transaction{}, ids).Error
}

func (r *TransactionRepository) GetAll() ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Order("created_at desc").Find(&transactions).Error
	return transactions, err
}
