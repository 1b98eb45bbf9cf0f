package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condominio_backend/internals/features/finance/accounting/dto"
	"condominio_backend/internals/features/finance/accounting/model"
	"condominio_backend/internals/features/finance/accounting/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureAccounting = "accounting"

type AccountingController struct {
	Svc *service.AccountingService
}

func NewAccountingController(svc *service.AccountingService) *AccountingController {
	return &AccountingController{Svc: svc}
}

func guardCondominium(c *fiber.Ctx) (*helperAuth.Principal, uuid.UUID, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := helperAuth.EnsureAccounting(p, condoID, featureAccounting); err != nil {
		return nil, uuid.Nil, err
	}
	return p, condoID, nil
}

func parseTransactionQuery(c *fiber.Ctx, condoID uuid.UUID) (dto.ListTransactionQuery, error) {
	q := dto.ListTransactionQuery{CondominiumID: condoID}
	var err error
	if t := strings.ToLower(strings.TrimSpace(c.Query("type"))); t != "" {
		if t != model.TransactionTypeIncome && t != model.TransactionTypeExpense {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid type")
		}
		q.Type = &t
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		switch st {
		case model.TransactionStatusPending, model.TransactionStatusCompleted, model.TransactionStatusCancelled:
			q.Status = &st
		default:
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
	}
	if q.PropertyID, err = helper.QueryUUID(c, "property_id"); err != nil {
		return q, err
	}
	if q.From, err = helper.QueryDate(c, "from"); err != nil {
		return q, err
	}
	if q.To, err = helper.QueryDate(c, "to"); err != nil {
		return q, err
	}
	return q, nil
}

/* =======================================================
   TRANSACTIONS
======================================================= */

// GET /api/condominiums/:condominium_id/accounting/transactions
func (h *AccountingController) ListTransactions(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := parseTransactionQuery(c, condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 500)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListTransactions(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// GET /api/condominiums/:condominium_id/accounting/summary?from=&to=
func (h *AccountingController) Summary(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := parseTransactionQuery(c, condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	sum, err := h.Svc.Summarize(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /api/condominiums/:condominium_id/accounting/transactions/export
func (h *AccountingController) ExportTransactions(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := parseTransactionQuery(c, condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	f, err := h.Svc.ExportTransactions(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.SendXLSX(c, fmt.Sprintf("transactions-%s.xlsx", condoID.String()[:8]), f)
}

// POST /api/condominiums/:condominium_id/accounting/transactions
func (h *AccountingController) CreateTransaction(c *fiber.Ctx) error {
	p, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateTransactionRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateTransaction(c.UserContext(), condoID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "transaction created", row)
}

func (h *AccountingController) loadTransaction(c *fiber.Ctx) (*helperAuth.Principal, *model.AccountingTransaction, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	row, err := h.Svc.FindTransaction(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if err := helperAuth.EnsureAccounting(p, row.TransactionCondominiumID, featureAccounting); err != nil {
		return nil, nil, err
	}
	return p, row, nil
}

// PATCH /api/accounting/transactions/:id
func (h *AccountingController) UpdateTransaction(c *fiber.Ctx) error {
	_, row, err := h.loadTransaction(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateTransactionRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateTransaction(c.UserContext(), row.TransactionID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "transaction updated", out)
}

// DELETE /api/accounting/transactions/:id (admin / accountant)
func (h *AccountingController) DeleteTransaction(c *fiber.Ctx) error {
	p, row, err := h.loadTransaction(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if !p.CanManageBudgets() {
		return helper.JsonFromError(c, helper.Forbidden("only administrators and accountants can delete transactions"))
	}
	if err := h.Svc.DeleteTransaction(c.UserContext(), row.TransactionID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "transaction deleted", fiber.Map{"transaction_id": row.TransactionID})
}

/* =======================================================
   BUDGETS
======================================================= */

// GET /api/condominiums/:condominium_id/accounting/budgets?year=
func (h *AccountingController) ListBudgets(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	year, err := helper.QueryInt(c, "year")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListBudgets(c.UserContext(), condoID, year)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/condominiums/:condominium_id/accounting/budgets/execution?year=
func (h *AccountingController) BudgetExecution(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	year, err := helper.QueryInt(c, "year")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	y := h.Svc.Clock.Now().Year()
	if year != nil {
		y = *year
	}
	rows, err := h.Svc.BudgetExecution(c.UserContext(), condoID, y)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/condominiums/:condominium_id/accounting/budgets
func (h *AccountingController) CreateBudget(c *fiber.Ctx) error {
	p, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if !p.CanManageBudgets() {
		return helper.JsonFromError(c, helper.Forbidden("access denied to budget management"))
	}
	var req dto.CreateBudgetRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateBudget(c.UserContext(), condoID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "budget created", row)
}

func (h *AccountingController) loadBudget(c *fiber.Ctx) (*helperAuth.Principal, *model.Budget, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	row, err := h.Svc.FindBudget(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if err := helperAuth.EnsureAccounting(p, row.BudgetCondominiumID, featureAccounting); err != nil {
		return nil, nil, err
	}
	return p, row, nil
}

// PATCH /api/accounting/budgets/:id
func (h *AccountingController) UpdateBudget(c *fiber.Ctx) error {
	p, row, err := h.loadBudget(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateBudgetRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateBudget(c.UserContext(), row.BudgetID, req, p.UserID, p.CanManageBudgets())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "budget updated", out)
}

// DELETE /api/accounting/budgets/:id
func (h *AccountingController) DeleteBudget(c *fiber.Ctx) error {
	p, row, err := h.loadBudget(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if !p.CanManageBudgets() {
		return helper.JsonFromError(c, helper.Forbidden("access denied to budget management"))
	}
	if err := h.Svc.DeleteBudget(c.UserContext(), row.BudgetID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "budget deleted", fiber.Map{"budget_id": row.BudgetID})
}
