package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeReceiptStorage struct {
	keys    []string
	deleted []string
}

func (s *fakeReceiptStorage) Upload(key string, src io.Reader, contentType string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://receipts.example.com/" + key, nil
}

func (s *fakeReceiptStorage) Delete(key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

// vanishingReceiptStorage deletes the expense row while the upload is in
// flight, standing in for a concurrent delete.
type vanishingReceiptStorage struct {
	fakeReceiptStorage
	db *gorm.DB
}

func (s *vanishingReceiptStorage) Upload(key string, src io.Reader, contentType string) (string, error) {
	if err := s.db.Where("1 = 1").Delete(&models.Expense{}).Error; err != nil {
		return "", err
	}
	return s.fakeReceiptStorage.Upload(key, src, contentType)
}

func newLedgerFixture(t *testing.T) (*LedgerService, *gorm.DB, *models.User) {
	t.Helper()
	db := newTestDB(t)

	svc := NewLedgerService(
		db,
		repository.NewContributionRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewAuditLogRepository(db),
		repository.NewEventRepository(db),
		repository.NewUserRepository(db),
		&fakeReceiptStorage{},
		zap.NewNop(),
	)

	member := &models.User{
		AccountID: 1,
		Name:      "Anjali",
		Email:     "anjali@example.com",
		Roles:     []string{models.RoleMember},
	}
	require.NoError(t, db.Create(member).Error)

	return svc, db, member
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateContribution_MirrorAndAudit(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	paidOn := "2026-01-15"
	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 5000,
		Status: models.ContributionStatusPaid,
		PaidOn: &paidOn,
	})
	require.NoError(t, err)
	require.NotZero(t, contribution.ID)

	var mirror models.Transaction
	require.NoError(t, db.Where("reference_type = ? AND reference_id = ?",
		models.ReferenceTypeContribution, contribution.ID).First(&mirror).Error)
	assert.Equal(t, models.TransactionTypeIncome, mirror.Type)
	assert.Equal(t, contribution.Amount, mirror.Amount)

	var entry models.AuditLog
	require.NoError(t, db.Where("entity_type = ? AND entity_id = ?",
		models.ReferenceTypeContribution, contribution.ID).First(&entry).Error)
	assert.Equal(t, models.AuditCreatedContribution, entry.Action)
	assert.Equal(t, member.ID, entry.PerformedBy)
}

func TestCreateContribution_PaidRequiresPaidOn(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	_, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 5000,
		Status: models.ContributionStatusPaid,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Zero(t, countRows(t, db, &models.Contribution{}))
	assert.Zero(t, countRows(t, db, &models.Transaction{}))
	assert.Zero(t, countRows(t, db, &models.AuditLog{}))
}

func TestCreateContribution_InvalidEventLeavesNoRows(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	eventID := uint(999)
	_, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID:  member.ID,
		EventID: &eventID,
		Year:    2026,
		Amount:  1000,
		Status:  models.ContributionStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Zero(t, countRows(t, db, &models.Contribution{}))
	assert.Zero(t, countRows(t, db, &models.Transaction{}))
}

func TestUpdateContribution_PropagatesAmountToMirror(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	newAmount := 2500.0
	updated, err := svc.UpdateContribution(member.ID, contribution.ID, models.ContributionPatch{
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, newAmount, updated.Amount)

	var mirror models.Transaction
	require.NoError(t, db.Where("reference_type = ? AND reference_id = ?",
		models.ReferenceTypeContribution, contribution.ID).First(&mirror).Error)
	assert.Equal(t, newAmount, mirror.Amount)

	var actions []string
	require.NoError(t, db.Model(&models.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{models.AuditCreatedContribution, models.AuditUpdatedContribution}, actions)
}

func TestUpdateContribution_EmptyPatchRejected(t *testing.T) {
	svc, _, member := newLedgerFixture(t)

	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	_, err = svc.UpdateContribution(member.ID, contribution.ID, models.ContributionPatch{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateContribution_MergedPaidRule(t *testing.T) {
	svc, _, member := newLedgerFixture(t)

	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	// Flipping to paid without a paid date on either side of the merge
	// must fail.
	paid := models.ContributionStatusPaid
	_, err = svc.UpdateContribution(member.ID, contribution.ID, models.ContributionPatch{
		Status: &paid,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// With a date supplied in the same patch it goes through.
	paidOn := "2026-02-01"
	updated, err := svc.UpdateContribution(member.ID, contribution.ID, models.ContributionPatch{
		Status: &paid,
		PaidOn: &paidOn,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContributionStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidOn)
}

func TestDeleteContribution_RemovesMirrorKeepsAudit(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContribution(member.ID, contribution.ID))

	assert.Zero(t, countRows(t, db, &models.Contribution{}))
	assert.Zero(t, countRows(t, db, &models.Transaction{}))

	// The audit trail outlives the records it describes.
	var actions []string
	require.NoError(t, db.Model(&models.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{models.AuditCreatedContribution, models.AuditDeletedContribution}, actions)
}

func TestDeleteContribution_NotFound(t *testing.T) {
	svc, _, member := newLedgerFixture(t)

	err := svc.DeleteContribution(member.ID, 42)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestMarkContributionPaid_Idempotent(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	contribution, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkContributionPaid(member.ID, contribution.ID, "online"))
	require.NoError(t, svc.MarkContributionPaid(member.ID, contribution.ID, "online"))

	var stored models.Contribution
	require.NoError(t, db.First(&stored, contribution.ID).Error)
	assert.Equal(t, models.ContributionStatusPaid, stored.Status)
	require.NotNil(t, stored.PaymentMode)
	assert.Equal(t, "online", *stored.PaymentMode)

	// Exactly one settlement entry despite the retry.
	var paidEntries int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditPaidContribution).Count(&paidEntries).Error)
	assert.Equal(t, int64(1), paidEntries)
}

func TestExpense_MirrorCarriesCategory(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	expense, err := svc.CreateExpense(member.ID, models.ExpenseRequest{
		Title:       "Temple roof repair",
		Category:    models.ExpenseCategoryMaintenance,
		Amount:      42000,
		ExpenseDate: "2026-03-10",
	})
	require.NoError(t, err)

	var mirror models.Transaction
	require.NoError(t, db.Where("reference_type = ? AND reference_id = ?",
		models.ReferenceTypeExpense, expense.ID).First(&mirror).Error)
	assert.Equal(t, models.TransactionTypeExpense, mirror.Type)
	assert.Equal(t, models.ExpenseCategoryMaintenance, mirror.Category)

	// Category changes propagate alongside amounts.
	renovation := models.ExpenseCategoryRenovation
	_, err = svc.UpdateExpense(member.ID, expense.ID, models.ExpensePatch{
		Category: &renovation,
	})
	require.NoError(t, err)

	require.NoError(t, db.Where("reference_type = ? AND reference_id = ?",
		models.ReferenceTypeExpense, expense.ID).First(&mirror).Error)
	assert.Equal(t, models.ExpenseCategoryRenovation, mirror.Category)
}

func TestExpense_DeleteCleansMirror(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	expense, err := svc.CreateExpense(member.ID, models.ExpenseRequest{
		Title:       "Oil lamps",
		Category:    models.ExpenseCategoryPooja,
		Amount:      750,
		ExpenseDate: "2026-04-02",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(member.ID, expense.ID))

	assert.Zero(t, countRows(t, db, &models.Expense{}))
	assert.Zero(t, countRows(t, db, &models.Transaction{}))
}

func TestGetContributions_Filters(t *testing.T) {
	svc, _, member := newLedgerFixture(t)

	for _, year := range []int{2025, 2026} {
		_, err := svc.CreateContribution(member.ID, models.ContributionRequest{
			UserID: member.ID,
			Year:   year,
			Amount: 1000,
			Status: models.ContributionStatusPending,
		})
		require.NoError(t, err)
	}

	all, err := svc.GetContributions(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byYear, err := svc.GetContributions(2026, 0)
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, 2026, byYear[0].Year)
}

func TestUploadExpenseReceipt_LinksURLAndAudits(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	expense, err := svc.CreateExpense(member.ID, models.ExpenseRequest{
		Title:       "Generator fuel",
		Category:    models.ExpenseCategoryElectricity,
		Amount:      3000,
		ExpenseDate: "2026-05-20",
	})
	require.NoError(t, err)

	updated, err := svc.UploadExpenseReceipt(member.ID, expense.ID, "bill.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NotNil(t, updated.ReceiptURL)
	assert.True(t, strings.HasPrefix(*updated.ReceiptURL, "https://receipts.example.com/receipts/"))

	store := svc.receiptStorage.(*fakeReceiptStorage)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasSuffix(store.keys[0], ".pdf"))

	var updates int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditUpdatedExpense).Count(&updates).Error)
	assert.Equal(t, int64(1), updates)
}

func TestUploadExpenseReceipt_MissingExpense(t *testing.T) {
	svc, _, member := newLedgerFixture(t)

	_, err := svc.UploadExpenseReceipt(member.ID, 77, "bill.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	store := svc.receiptStorage.(*fakeReceiptStorage)
	assert.Empty(t, store.keys)
}

func TestUploadExpenseReceipt_CleansUpWhenExpenseVanishes(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	expense, err := svc.CreateExpense(member.ID, models.ExpenseRequest{
		Title:       "Chairs",
		Category:    models.ExpenseCategoryMisc,
		Amount:      1200,
		ExpenseDate: "2026-06-01",
	})
	require.NoError(t, err)

	store := &vanishingReceiptStorage{db: db}
	svc.receiptStorage = store

	_, err = svc.UploadExpenseReceipt(member.ID, expense.ID, "bill.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	// The stored object was removed again, not left orphaned.
	require.Len(t, store.keys, 1)
	assert.Equal(t, store.keys, store.deleted)
}

func TestAuditLog_TimestampsAreSet(t *testing.T) {
	svc, db, member := newLedgerFixture(t)

	before := time.Now().Add(-time.Second)
	_, err := svc.CreateContribution(member.ID, models.ContributionRequest{
		UserID: member.ID,
		Year:   2026,
		Amount: 1000,
		Status: models.ContributionStatusPending,
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.True(t, entry.Timestamp.After(before))
}
