package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFinanceApp(t *testing.T) (*fiber.App, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Contribution{},
		&models.Expense{},
		&models.Transaction{},
		&models.AuditLog{},
		&models.Event{},
	))

	treasurer := &models.User{
		AccountID: 1,
		Name:      "Treasurer",
		Email:     "treasurer@example.com",
		Roles:     []string{models.RoleTreasurer},
	}
	require.NoError(t, db.Create(treasurer).Error)

	ledger := service.NewLedgerService(
		db,
		repository.NewContributionRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewAuditLogRepository(db),
		repository.NewEventRepository(db),
		repository.NewUserRepository(db),
		nil,
		zap.NewNop(),
	)
	financeHandler := NewFinanceHandler(ledger, utils.NewValidator())

	app := fiber.New()
	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", treasurer)
		return c.Next()
	})
	app.Post("/api/admin/expenses", financeHandler.CreateExpense)
	app.Post("/api/admin/contributions", financeHandler.CreateContribution)
	return app, treasurer
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateExpense_Returns200WithID(t *testing.T) {
	app, _ := newFinanceApp(t)

	resp := postJSON(t, app, "/api/admin/expenses",
		`{"title":"Generator fuel","category":"electricity","amount":1500,"expense_date":"2026-01-10"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	expense, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotZero(t, expense["id"])
}

func TestCreateContribution_Returns200(t *testing.T) {
	app, treasurer := newFinanceApp(t)

	resp := postJSON(t, app, "/api/admin/contributions",
		`{"user_id":`+jsonUint(treasurer.ID)+`,"year":2026,"amount":5000,"status":"pending"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateExpense_InvalidBodyIs400(t *testing.T) {
	app, _ := newFinanceApp(t)

	resp := postJSON(t, app, "/api/admin/expenses",
		`{"title":"Fuel","category":"not-a-category","amount":1500,"expense_date":"2026-01-10"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
