package models

import (
	"time"
)

// RateLimitCounter is a fixed-window counter keyed by route and hashed
// client IP. Rows are ephemeral; expired ones are reset in place.
type RateLimitCounter struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	RouteKey        string    `json:"route_key" gorm:"not null;uniqueIndex:idx_rate_route_ip"`
	IPHash          string    `json:"ip_hash" gorm:"not null;uniqueIndex:idx_rate_route_ip"`
	Count           int       `json:"count" gorm:"not null"`
	WindowStartedAt time.Time `json:"window_started_at" gorm:"not null"`
	ExpiresAt       time.Time `json:"expires_at" gorm:"not null"`
	UpdatedAt       time.Time `json:"updated_at"`
}
