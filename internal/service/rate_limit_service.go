package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RateLimitResult struct {
	Allowed           bool
	RetryAfterSeconds int
}

// RateLimitService enforces a fixed-window per-IP quota backed by the
// database, so every instance of the API shares the same counters.
type RateLimitService struct {
	rateLimitRepo *repository.RateLimitRepository
	logger        *zap.Logger
}

func NewRateLimitService(rateLimitRepo *repository.RateLimitRepository, logger *zap.Logger) *RateLimitService {
	return &RateLimitService{
		rateLimitRepo: rateLimitRepo,
		logger:        logger,
	}
}

// HashClientIP derives the privacy-preserving counter key. Clients with no
// resolvable address share one "unknown" bucket.
func HashClientIP(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// Enforce admits or rejects one request for (routeKey, clientIP). Every
// admission path is a single conditional write, so two racing requests
// cannot both slip through at the quota boundary.
func (s *RateLimitService) Enforce(routeKey, clientIP string, maxRequests int, window time.Duration) (*RateLimitResult, error) {
	ipHash := HashClientIP(clientIP)

	for attempt := 0; attempt < 3; attempt++ {
		now := time.Now()
		windowCutoff := now.Add(-window)
		expiresAt := now.Add(2 * window)

		admitted, err := s.rateLimitRepo.TryIncrement(routeKey, ipHash, windowCutoff, maxRequests, now, expiresAt)
		if err != nil {
			return nil, err
		}
		if admitted {
			return &RateLimitResult{Allowed: true}, nil
		}

		counter, err := s.rateLimitRepo.Get(routeKey, ipHash)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, err := s.rateLimitRepo.CreateIfAbsent(&models.RateLimitCounter{
				RouteKey:        routeKey,
				IPHash:          ipHash,
				Count:           1,
				WindowStartedAt: now,
				ExpiresAt:       expiresAt,
			})
			if err != nil {
				return nil, err
			}
			if created {
				return &RateLimitResult{Allowed: true}, nil
			}
			// Lost the insert race; another request owns the row now.
			continue
		}
		if err != nil {
			return nil, err
		}

		elapsed := now.Sub(counter.WindowStartedAt)
		if elapsed >= window {
			reset, err := s.rateLimitRepo.ResetWindow(routeKey, ipHash, counter.WindowStartedAt, now, expiresAt)
			if err != nil {
				return nil, err
			}
			if reset {
				return &RateLimitResult{Allowed: true}, nil
			}
			continue
		}

		retryAfter := int(math.Ceil((window - elapsed).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return &RateLimitResult{Allowed: false, RetryAfterSeconds: retryAfter}, nil
	}

	// Sustained contention on one key means the bucket is busy anyway.
	s.logger.Warn("rate limit contention, denying request", zap.String("route_key", routeKey))
	return &RateLimitResult{Allowed: false, RetryAfterSeconds: 1}, nil
}
