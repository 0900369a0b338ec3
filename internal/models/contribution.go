package models

import (
	"time"
)

const (
	ContributionStatusPaid    = "paid"
	ContributionStatusPending = "pending"
)

type Contribution struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	EventID     *uint      `json:"event_id,omitempty" gorm:"index"`
	Year        int        `json:"year" gorm:"not null"`
	Amount      float64    `json:"amount" gorm:"not null"`
	Status      string     `json:"status" gorm:"not null"`
	PaidOn      *time.Time `json:"paid_on,omitempty"`
	PaymentMode *string    `json:"payment_mode,omitempty"`
	CreatedBy   uint       `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ContributionRequest struct {
	UserID      uint    `json:"user_id" validate:"required"`
	EventID     *uint   `json:"event_id"`
	Year        int     `json:"year" validate:"required,gte=1900,lte=2200"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"required,oneof=paid pending"`
	PaymentMode *string `json:"payment_mode"`
	PaidOn      *string `json:"paid_on"`
}

// ContributionPatch applies only the fields that were sent.
type ContributionPatch struct {
	UserID      *uint    `json:"user_id"`
	EventID     *uint    `json:"event_id"`
	Year        *int     `json:"year" validate:"omitempty,gte=1900,lte=2200"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=paid pending"`
	PaymentMode *string  `json:"payment_mode"`
	PaidOn      *string  `json:"paid_on"`
}

func (p *ContributionPatch) IsEmpty() bool {
	return p.UserID == nil &&
		p.EventID == nil &&
		p.Year == nil &&
		p.Amount == nil &&
		p.Status == nil &&
		p.PaymentMode == nil &&
		p.PaidOn == nil
}
