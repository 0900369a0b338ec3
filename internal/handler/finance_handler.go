package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/utils"
)

type FinanceHandler struct {
	ledger    *service.LedgerService
	validator *utils.Validator
}

func NewFinanceHandler(ledger *service.LedgerService, validator *utils.Validator) *FinanceHandler {
	return &FinanceHandler{
		ledger:    ledger,
		validator: validator,
	}
}

func (h *FinanceHandler) CreateContribution(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.ContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid contribution: check user_id, year, amount and status"))
	}

	contribution, err := h.ledger.CreateContribution(user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(contribution, "Contribution recorded"))
}

func (h *FinanceHandler) ListContributions(c *fiber.Ctx) error {
	year, _ := strconv.Atoi(c.Query("year"))
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	contributions, err := h.ledger.GetContributions(year, uint(userID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(contributions, ""))
}

// MyContributions lists the signed-in member's own payment history.
func (h *FinanceHandler) MyContributions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contributions, err := h.ledger.GetUserContributions(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(contributions, ""))
}

func (h *FinanceHandler) UpdateContribution(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	contributionID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var patch models.ContributionPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid contribution update: check year, amount and status"))
	}

	contribution, err := h.ledger.UpdateContribution(user.ID, contributionID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(contribution, "Contribution updated"))
}

func (h *FinanceHandler) DeleteContribution(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	contributionID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.ledger.DeleteContribution(user.ID, contributionID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Contribution deleted"))
}

func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid expense: check title, category, amount and expense_date"))
	}

	expense, err := h.ledger.CreateExpense(user.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(expense, "Expense recorded"))
}

func (h *FinanceHandler) ListExpenses(c *fiber.Ctx) error {
	expenses, err := h.ledger.GetExpenses(c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(expenses, ""))
}

func (h *FinanceHandler) UpdateExpense(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var patch models.ExpensePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid expense update: check category and amount"))
	}

	expense, err := h.ledger.UpdateExpense(user.ID, expenseID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(expense, "Expense updated"))
}

func (h *FinanceHandler) DeleteExpense(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.ledger.DeleteExpense(user.ID, expenseID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Expense deleted"))
}

func (h *FinanceHandler) UploadExpenseReceipt(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("A receipt file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read the uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read the uploaded file"))
	}

	expense, err := h.ledger.UploadExpenseReceipt(user.ID, expenseID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(expense, "Receipt uploaded"))
}

func (h *FinanceHandler) ListTransactions(c *fiber.Ctx) error {
	transactions, err := h.ledger.GetTransactions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(transactions, ""))
}

func (h *FinanceHandler) ListAuditLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.ledger.GetAuditLogs(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(logs, ""))
}
