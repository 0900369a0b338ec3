package models

import (
	"time"
)

// AuditLog rows are append-only. Nothing in the codebase updates or
// deletes them, and no repository method exists to do so.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Action      string    `json:"action" gorm:"not null"`
	PerformedBy uint      `json:"performed_by" gorm:"not null"`
	EntityType  string    `json:"entity_type" gorm:"not null;index"`
	EntityID    uint      `json:"entity_id" gorm:"not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null"`
}

// Audit actions recorded by the finance ledger and gallery.
const (
	AuditCreatedContribution  = "created_contribution"
	AuditUpdatedContribution  = "updated_contribution"
	AuditDeletedContribution  = "deleted_contribution"
	AuditPaidContribution     = "paid_contribution"
	AuditCreatedExpense       = "created_expense"
	AuditUpdatedExpense       = "updated_expense"
	AuditDeletedExpense       = "deleted_expense"
	AuditUploadedGalleryPhoto = "uploaded_gallery_photo"
	AuditDeletedGalleryPhoto  = "deleted_gallery_photo"
)
