package models

import (
	"time"
)

const (
	AccessStatusPending  = "pending"
	AccessStatusApproved = "approved"
	AccessStatusDenied   = "denied"
)

// AccessRequest moves pending -> approved|denied and then never again.
type AccessRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"not null;index;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	DeniedAt   *time.Time `json:"denied_at,omitempty"`
	DeniedBy   *uint      `json:"denied_by,omitempty"`

	// Marker only. The password itself is returned once and never stored.
	TempPasswordIssuedAt *time.Time `json:"temp_password_issued_at,omitempty"`
}

type AccessRequestSubmission struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
}

// AccessApprovalResponse is shown to the approving admin exactly once.
type AccessApprovalResponse struct {
	TempPassword string `json:"temp_password"`
	LoginURL     string `json:"login_url"`
}
