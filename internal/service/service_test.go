package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taravadumane/portal-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.AuthAccount{},
		&models.User{},
		&models.AccessRequest{},
		&models.Contribution{},
		&models.Expense{},
		&models.Transaction{},
		&models.AuditLog{},
		&models.Event{},
		&models.Announcement{},
		&models.GalleryPhoto{},
		&models.RateLimitCounter{},
	))
	return db
}

// fakeMailer records notifications instead of sending them.
type fakeMailer struct {
	mu       sync.Mutex
	approved []string
	denied   []string
}

func (m *fakeMailer) SendAccessApprovedEmail(to, name, loginURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approved = append(m.approved, to)
	return nil
}

func (m *fakeMailer) SendAccessDeniedEmail(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied = append(m.denied, to)
	return nil
}
