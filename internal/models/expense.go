package models

import (
	"time"
)

const (
	ExpenseCategoryPooja       = "pooja"
	ExpenseCategoryElectricity = "electricity"
	ExpenseCategoryMaintenance = "maintenance"
	ExpenseCategoryRenovation  = "renovation"
	ExpenseCategoryMisc        = "misc"
)

type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Category    string    `json:"category" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	ReceiptURL  *string   `json:"receipt_url,omitempty"`
	ExpenseDate time.Time `json:"expense_date" gorm:"not null"`
	EventID     *uint     `json:"event_id,omitempty" gorm:"index"`
	CreatedBy   uint      `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ExpenseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=pooja electricity maintenance renovation misc"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description *string `json:"description"`
	ReceiptURL  *string `json:"receipt_url"`
	ExpenseDate string  `json:"expense_date" validate:"required"`
	EventID     *uint   `json:"event_id"`
}

type ExpensePatch struct {
	Title       *string  `json:"title"`
	Category    *string  `json:"category" validate:"omitempty,oneof=pooja electricity maintenance renovation misc"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	ReceiptURL  *string  `json:"receipt_url"`
	ExpenseDate *string  `json:"expense_date"`
	EventID     *uint    `json:"event_id"`
}

func (p *ExpensePatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Category == nil &&
		p.Amount == nil &&
		p.Description == nil &&
		p.ReceiptURL == nil &&
		p.ExpenseDate == nil &&
		p.EventID == nil
}
