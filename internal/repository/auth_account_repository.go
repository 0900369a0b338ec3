package repository

import (
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
)

type AuthAccountRepository struct {
	db *gorm.DB
}

func NewAuthAccountRepository(db *gorm.DB) *AuthAccountRepository {
	return &AuthAccountRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *AuthAccountRepository) WithTx(tx *gorm.DB) *AuthAccountRepository {
	return &AuthAccountRepository{db: tx}
}

func (r *AuthAccountRepository) Create(account *models.AuthAccount) error {
	return r.db.Create(account).Error
}

func (r *AuthAccountRepository) GetByID(id uint) (*models.AuthAccount, error) {
	var account models.AuthAccount
	err := r.db.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail returns gorm.ErrRecordNotFound when no account exists;
// callers depend on that to tell "absent" apart from real failures.
func (r *AuthAccountRepository) GetByEmail(email string) (*models.AuthAccount, error) {
	var account models.AuthAccount
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AuthAccountRepository) Update(account *models.AuthAccount) error {
	return r.db.Save(account).Error
}
