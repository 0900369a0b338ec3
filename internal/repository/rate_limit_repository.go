package repository

import (
	"time"

	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimitRepository exposes only conditional single-statement writes so
// two racing requests can never both be admitted at the quota boundary.
type RateLimitRepository struct {
	db *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// TryIncrement bumps the counter only when the current window is still
// open and below max. The WHERE guard makes the check-and-increment atomic.
func (r *RateLimitRepository) TryIncrement(routeKey, ipHash string, windowCutoff time.Time, max int, now, expiresAt time.Time) (bool, error) {
	result := r.db.Model(&models.RateLimitCounter{}).
		Where("route_key = ? AND ip_hash = ? AND window_started_at > ? AND count < ?",
			routeKey, ipHash, windowCutoff, max).
		Updates(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"expires_at": expiresAt,
			"updated_at": now,
		})
	return result.RowsAffected == 1, result.Error
}

// CreateIfAbsent inserts a fresh counter with count=1. Returns false when
// another request created the row first.
func (r *RateLimitRepository) CreateIfAbsent(counter *models.RateLimitCounter) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "route_key"}, {Name: "ip_hash"}},
		DoNothing: true,
	}).Create(counter)
	return result.RowsAffected == 1, result.Error
}

// ResetWindow restarts a stale window. The guard on the previous window
// start collapses racing resets to a single winner.
func (r *RateLimitRepository) ResetWindow(routeKey, ipHash string, prevWindowStart, now, expiresAt time.Time) (bool, error) {
	result := r.db.Model(&models.RateLimitCounter{}).
		Where("route_key = ? AND ip_hash = ? AND window_started_at = ?",
			routeKey, ipHash, prevWindowStart).
		Updates(map[string]interface{}{
			"count":             1,
			"window_started_at": now,
			"expires_at":        expiresAt,
			"updated_at":        now,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *RateLimitRepository) Get(routeKey, ipHash string) (*models.RateLimitCounter, error) {
	var counter models.RateLimitCounter
	err := r.db.Where("route_key = ? AND ip_hash = ?", routeKey, ipHash).First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}
