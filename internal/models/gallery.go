package models

import (
	"time"
)

type GalleryPhoto struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      *string   `json:"title,omitempty"`
	ImageURL   string    `json:"image_url" gorm:"not null"`
	PublicID   string    `json:"public_id" gorm:"not null"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Bytes      int64     `json:"bytes"`
	Format     string    `json:"format"`
	UploadedBy uint      `json:"uploaded_by" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GalleryPhotoResponse is the public gallery view.
type GalleryPhotoResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryUploadResult struct {
	ID       uint   `json:"id"`
	ImageURL string `json:"image_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
