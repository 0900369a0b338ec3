package models

import (
	"time"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	ReferenceTypeContribution = "contribution"
	ReferenceTypeExpense      = "expense"
)

// Transaction mirrors exactly one Contribution or Expense for reporting.
// Contribution and expense ids live in separate sequences, so the mirror
// carries the reference type alongside the id.
type Transaction struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Type          string    `json:"type" gorm:"not null"`
	Category      string    `json:"category" gorm:"not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	ReferenceType string    `json:"reference_type" gorm:"not null;index:idx_tx_reference"`
	ReferenceID   uint      `json:"reference_id" gorm:"not null;index:idx_tx_reference"`
	CreatedBy     uint      `json:"created_by" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
