package service

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/repository"
	"github.com/taravadumane/portal-backend/pkg/apperror"
	"github.com/taravadumane/portal-backend/pkg/storage"
	"github.com/taravadumane/portal-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService owns every mutation of the finance records. Each operation
// writes the entity, its mirrored transaction and the audit entry inside a
// single database transaction: a mutation without its audit row cannot
// happen.
type LedgerService struct {
	db               *gorm.DB
	contributionRepo *repository.ContributionRepository
	expenseRepo      *repository.ExpenseRepository
	transactionRepo  *repository.TransactionRepository
	auditRepo        *repository.AuditLogRepository
	eventRepo        *repository.EventRepository
	userRepo         *repository.UserRepository
	receiptStorage   storage.StorageService
	logger           *zap.Logger
}

func NewLedgerService(
	db *gorm.DB,
	contributionRepo *repository.ContributionRepository,
	expenseRepo *repository.ExpenseRepository,
	transactionRepo *repository.TransactionRepository,
	auditRepo *repository.AuditLogRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	receiptStorage storage.StorageService,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		db:               db,
		contributionRepo: contributionRepo,
		expenseRepo:      expenseRepo,
		transactionRepo:  transactionRepo,
		auditRepo:        auditRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		receiptStorage:   receiptStorage,
		logger:           logger,
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// checkEventRef runs inside the caller's transaction so a concurrent event
// deletion cannot slip between the check and the write.
func (s *LedgerService) checkEventRef(tx *gorm.DB, eventID uint) error {
	exists, err := s.eventRepo.WithTx(tx).Exists(eventID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.Validation("event_id does not reference an existing event.")
	}
	return nil
}

func (s *LedgerService) checkUserRef(tx *gorm.DB, userID uint) error {
	exists, err := s.userRepo.WithTx(tx).Exists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.Validation("user_id does not reference a member.")
	}
	return nil
}

func (s *LedgerService) CreateContribution(actorID uint, req models.ContributionRequest) (*models.Contribution, error) {
	paidOn, err := utils.ParseOptionalDate(req.PaidOn)
	if err != nil {
		return nil, apperror.Validation("paid_on must be a valid date.")
	}
	if req.Status == models.ContributionStatusPaid && paidOn == nil {
		return nil, apperror.Validation("Paid contributions must include a paid date.")
	}

	contribution := &models.Contribution{
		UserID:      req.UserID,
		EventID:     req.EventID,
		Year:        req.Year,
		Amount:      req.Amount,
		Status:      req.Status,
		PaidOn:      paidOn,
		PaymentMode: normalizeOptional(req.PaymentMode),
		CreatedBy:   actorID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkUserRef(tx, req.UserID); err != nil {
			return err
		}
		if req.EventID != nil {
			if err := s.checkEventRef(tx, *req.EventID); err != nil {
				return err
			}
		}

		if err := s.contributionRepo.WithTx(tx).Create(contribution); err != nil {
			return err
		}

		mirror := &models.Transaction{
			Type:          models.TransactionTypeIncome,
			Category:      "contribution",
			Amount:        contribution.Amount,
			ReferenceType: models.ReferenceTypeContribution,
			ReferenceID:   contribution.ID,
			CreatedBy:     actorID,
		}
		if err := s.transactionRepo.WithTx(tx).Create(mirror); err != nil {
			return err
		}

		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditCreatedContribution,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeContribution,
			EntityID:    contribution.ID,
			Timestamp:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return contribution, nil
}

func (s *LedgerService) UpdateContribution(actorID, contributionID uint, patch models.ContributionPatch) (*models.Contribution, error) {
	if patch.IsEmpty() {
		return nil, apperror.Validation("At least one field is required for update.")
	}

	patchPaidOn, err := utils.ParseOptionalDate(patch.PaidOn)
	if err != nil {
		return nil, apperror.Validation("paid_on must be a valid date.")
	}

	var updated *models.Contribution
	err = s.db.Transaction(func(tx *gorm.DB) error {
		contributionRepo := s.contributionRepo.WithTx(tx)

		contribution, err := contributionRepo.GetByID(contributionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Contribution not found.")
		}
		if err != nil {
			return err
		}

		if patch.UserID != nil {
			if err := s.checkUserRef(tx, *patch.UserID); err != nil {
				return err
			}
		}
		if patch.EventID != nil {
			if err := s.checkEventRef(tx, *patch.EventID); err != nil {
				return err
			}
		}

		// The paid/paid_on rule holds on the merged view: patch value when
		// sent, stored value otherwise.
		mergedStatus := contribution.Status
		if patch.Status != nil {
			mergedStatus = *patch.Status
		}
		mergedPaidOn := contribution.PaidOn
		if patch.PaidOn != nil {
			mergedPaidOn = patchPaidOn
		}
		if mergedStatus == models.ContributionStatusPaid && mergedPaidOn == nil {
			return apperror.Validation("Paid contributions must include a paid date.")
		}

		previousAmount := contribution.Amount

		if patch.UserID != nil {
			contribution.UserID = *patch.UserID
		}
		if patch.EventID != nil {
			contribution.EventID = patch.EventID
		}
		if patch.Year != nil {
			contribution.Year = *patch.Year
		}
		if patch.Amount != nil {
			contribution.Amount = *patch.Amount
		}
		if patch.Status != nil {
			contribution.Status = *patch.Status
		}
		if patch.PaymentMode != nil {
			contribution.PaymentMode = normalizeOptional(patch.PaymentMode)
		}
		if patch.PaidOn != nil {
			contribution.PaidOn = patchPaidOn
		}

		if err := contributionRepo.Update(contribution); err != nil {
			return err
		}

		if contribution.Amount != previousAmount {
			if err := s.propagateMirror(tx, models.ReferenceTypeContribution, contribution.ID, contribution.Amount, ""); err != nil {
				return err
			}
		}

		if err := s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditUpdatedContribution,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeContribution,
			EntityID:    contribution.ID,
			Timestamp:   time.Now(),
		}); err != nil {
			return err
		}

		updated = contribution
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *LedgerService) DeleteContribution(actorID, contributionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		contributionRepo := s.contributionRepo.WithTx(tx)

		contribution, err := contributionRepo.GetByID(contributionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Contribution not found.")
		}
		if err != nil {
			return err
		}

		if err := contributionRepo.Delete(contribution.ID); err != nil {
			return err
		}
		if err := s.transactionRepo.WithTx(tx).DeleteByReference(models.ReferenceTypeContribution, contribution.ID); err != nil {
			return err
		}

		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditDeletedContribution,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeContribution,
			EntityID:    contribution.ID,
			Timestamp:   time.Now(),
		})
	})
}

// MarkContributionPaid settles a pending contribution after an online
// payment. Already-paid contributions are left untouched so webhook
// retries stay harmless.
func (s *LedgerService) MarkContributionPaid(actorID, contributionID uint, paymentMode string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		contributionRepo := s.contributionRepo.WithTx(tx)

		contribution, err := contributionRepo.GetByID(contributionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Contribution not found.")
		}
		if err != nil {
			return err
		}
		if contribution.Status == models.ContributionStatusPaid {
			return nil
		}

		now := time.Now()
		contribution.Status = models.ContributionStatusPaid
		contribution.PaidOn = &now
		contribution.PaymentMode = &paymentMode
		if err := contributionRepo.Update(contribution); err != nil {
			return err
		}

		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditPaidContribution,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeContribution,
			EntityID:    contribution.ID,
			Timestamp:   now,
		})
	})
}

func (s *LedgerService) CreateExpense(actorID uint, req models.ExpenseRequest) (*models.Expense, error) {
	expenseDate, err := utils.ParseDate(req.ExpenseDate)
	if err != nil {
		return nil, apperror.Validation("expense_date must be a valid date.")
	}

	expense := &models.Expense{
		Title:       strings.TrimSpace(req.Title),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: normalizeOptional(req.Description),
		ReceiptURL:  normalizeOptional(req.ReceiptURL),
		ExpenseDate: expenseDate,
		EventID:     req.EventID,
		CreatedBy:   actorID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.EventID != nil {
			if err := s.checkEventRef(tx, *req.EventID); err != nil {
				return err
			}
		}

		if err := s.expenseRepo.WithTx(tx).Create(expense); err != nil {
			return err
		}

		mirror := &models.Transaction{
			Type:          models.TransactionTypeExpense,
			Category:      expense.Category,
			Amount:        expense.Amount,
			ReferenceType: models.ReferenceTypeExpense,
			ReferenceID:   expense.ID,
			CreatedBy:     actorID,
		}
		if err := s.transactionRepo.WithTx(tx).Create(mirror); err != nil {
			return err
		}

		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditCreatedExpense,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeExpense,
			EntityID:    expense.ID,
			Timestamp:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *LedgerService) UpdateExpense(actorID, expenseID uint, patch models.ExpensePatch) (*models.Expense, error) {
	if patch.IsEmpty() {
		return nil, apperror.Validation("At least one field is required for update.")
	}

	var patchDate *time.Time
	if patch.ExpenseDate != nil {
		parsed, err := utils.ParseDate(*patch.ExpenseDate)
		if err != nil {
			return nil, apperror.Validation("expense_date must be a valid date.")
		}
		patchDate = &parsed
	}

	var updated *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expenseRepo := s.expenseRepo.WithTx(tx)

		expense, err := expenseRepo.GetByID(expenseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Expense not found.")
		}
		if err != nil {
			return err
		}

		if patch.EventID != nil {
			if err := s.checkEventRef(tx, *patch.EventID); err != nil {
				return err
			}
		}

		previousAmount := expense.Amount
		previousCategory := expense.Category

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return apperror.Validation("title is required.")
			}
			expense.Title = title
		}
		if patch.Category != nil {
			expense.Category = *patch.Category
		}
		if patch.Amount != nil {
			expense.Amount = *patch.Amount
		}
		if patch.Description != nil {
			expense.Description = normalizeOptional(patch.Description)
		}
		if patch.ReceiptURL != nil {
			expense.ReceiptURL = normalizeOptional(patch.ReceiptURL)
		}
		if patchDate != nil {
			expense.ExpenseDate = *patchDate
		}
		if patch.EventID != nil {
			expense.EventID = patch.EventID
		}

		if err := expenseRepo.Update(expense); err != nil {
			return err
		}

		if expense.Amount != previousAmount || expense.Category != previousCategory {
			if err := s.propagateMirror(tx, models.ReferenceTypeExpense, expense.ID, expense.Amount, expense.Category); err != nil {
				return err
			}
		}

		if err := s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditUpdatedExpense,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeExpense,
			EntityID:    expense.ID,
			Timestamp:   time.Now(),
		}); err != nil {
			return err
		}

		updated = expense
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *LedgerService) DeleteExpense(actorID, expenseID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		expenseRepo := s.expenseRepo.WithTx(tx)

		expense, err := expenseRepo.GetByID(expenseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Expense not found.")
		}
		if err != nil {
			return err
		}

		if err := expenseRepo.Delete(expense.ID); err != nil {
			return err
		}
		if err := s.transactionRepo.WithTx(tx).DeleteByReference(models.ReferenceTypeExpense, expense.ID); err != nil {
			return err
		}

		return s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditDeletedExpense,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeExpense,
			EntityID:    expense.ID,
			Timestamp:   time.Now(),
		})
	})
}

// propagateMirror pushes amount (and category, when non-empty) onto the
// mirrored transaction. A missing mirror is logged, not fatal: the update
// of the source record must not be blocked by an already-corrupt mirror.
func (s *LedgerService) propagateMirror(tx *gorm.DB, referenceType string, referenceID uint, amount float64, category string) error {
	transactionRepo := s.transactionRepo.WithTx(tx)

	mirror, err := transactionRepo.GetByReference(referenceType, referenceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("ledger mirror missing",
			zap.String("reference_type", referenceType),
			zap.Uint("reference_id", referenceID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	mirror.Amount = amount
	if category != "" {
		mirror.Category = category
	}
	return transactionRepo.Update(mirror)
}

// UploadExpenseReceipt stores the receipt file and links it to the expense.
func (s *LedgerService) UploadExpenseReceipt(actorID, expenseID uint, filename, contentType string, data []byte) (*models.Expense, error) {
	if _, err := s.expenseRepo.GetByID(expenseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Expense not found.")
		}
		return nil, err
	}

	key := fmt.Sprintf("receipts/%d/%s%s", expenseID, uuid.NewString(), filepath.Ext(filename))
	url, err := s.receiptStorage.Upload(key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, apperror.Upstream(apperror.CodeImageStoreNetwork,
			"Receipt storage is temporarily unreachable. Please try again.", true, err)
	}

	var updated *models.Expense
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expenseRepo := s.expenseRepo.WithTx(tx)

		current, err := expenseRepo.GetByID(expenseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Expense not found.")
		}
		if err != nil {
			return err
		}

		current.ReceiptURL = &url
		if err := expenseRepo.Update(current); err != nil {
			return err
		}

		if err := s.auditRepo.WithTx(tx).Append(&models.AuditLog{
			Action:      models.AuditUpdatedExpense,
			PerformedBy: actorID,
			EntityType:  models.ReferenceTypeExpense,
			EntityID:    current.ID,
			Timestamp:   time.Now(),
		}); err != nil {
			return err
		}

		updated = current
		return nil
	})
	if err != nil {
		// The object is already in storage; drop it rather than leave it
		// orphaned. Cleanup failure is logged, not surfaced.
		if deleteErr := s.receiptStorage.Delete(key); deleteErr != nil {
			s.logger.Warn("receipt cleanup failed",
				zap.String("key", key),
				zap.Error(deleteErr),
			)
		}
		return nil, err
	}

	return updated, nil
}

func (s *LedgerService) GetContributions(year int, userID uint) ([]models.Contribution, error) {
	return s.contributionRepo.GetAll(year, userID)
}

func (s *LedgerService) GetUserContributions(userID uint) ([]models.Contribution, error) {
	return s.contributionRepo.GetByUserID(userID)
}

func (s *LedgerService) GetContribution(id uint) (*models.Contribution, error) {
	contribution, err := s.contributionRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Contribution not found.")
	}
	return contribution, err
}

func (s *LedgerService) GetExpenses(category string) ([]models.Expense, error) {
	return s.expenseRepo.GetAll(category)
}

func (s *LedgerService) GetTransactions() ([]models.Transaction, error) {
	return s.transactionRepo.GetAll()
}

func (s *LedgerService) GetAuditLogs(limit int) ([]models.AuditLog, error) {
	return s.auditRepo.GetRecent(limit)
}
