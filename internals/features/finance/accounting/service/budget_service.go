package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"condominio_backend/internals/features/finance/accounting/dto"
	"condominio_backend/internals/features/finance/accounting/model"
	helper "condominio_backend/internals/helpers"
)

// =======================================================
// BUDGETS
// =======================================================

func (s *AccountingService) CreateBudget(ctx context.Context, condominiumID uuid.UUID, req dto.CreateBudgetRequest) (*model.Budget, error) {
	if req.Amount.IsNegative() {
		return nil, helper.Validation("budgeted_amount cannot be negative")
	}
	db := s.DB.WithContext(ctx)
	if err := ensureCondominium(db, condominiumID); err != nil {
		return nil, err
	}
	row := model.Budget{
		BudgetCondominiumID: condominiumID,
		BudgetYear:          req.Year,
		BudgetCategory:      strings.TrimSpace(req.Category),
		BudgetAmount:        req.Amount.Round(2),
		BudgetDescription:   trimPtr(req.Description),
	}
	if err := db.Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("budget for %d/%s already exists", row.BudgetYear, row.BudgetCategory)
		}
		return nil, err
	}
	return &row, nil
}

func (s *AccountingService) FindBudget(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var row model.Budget
	if err := s.DB.WithContext(ctx).First(&row, "budget_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("budget not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *AccountingService) ListBudgets(ctx context.Context, condominiumID uuid.UUID, year *int) ([]model.Budget, error) {
	tx := s.DB.WithContext(ctx).Where("budget_condominium_id = ?", condominiumID)
	if year != nil {
		tx = tx.Where("budget_year = ?", *year)
	}
	var rows []model.Budget
	if err := tx.Order("budget_year DESC, budget_category ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateBudget: budget yang sudah approved hanya boleh diubah manager (admin/accountant).
// is_approved=true oleh manager mengisi approved_by/at; false mencabut persetujuan.
func (s *AccountingService) UpdateBudget(ctx context.Context, id uuid.UUID, req dto.UpdateBudgetRequest, actor uuid.UUID, canManage bool) (*model.Budget, error) {
	var out model.Budget
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&out, "budget_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("budget not found")
			}
			return err
		}
		if out.BudgetIsApproved && !canManage {
			return helper.Forbidden("cannot modify an approved budget")
		}

		if req.Year != nil {
			out.BudgetYear = *req.Year
		}
		if req.Category != nil {
			out.BudgetCategory = strings.TrimSpace(*req.Category)
		}
		if req.Amount != nil {
			if req.Amount.IsNegative() {
				return helper.Validation("budgeted_amount cannot be negative")
			}
			out.BudgetAmount = req.Amount.Round(2)
		}
		if req.Description != nil {
			out.BudgetDescription = trimPtr(req.Description)
		}
		if req.IsApproved != nil && *req.IsApproved != out.BudgetIsApproved {
			if !canManage {
				return helper.Forbidden("only administrators and accountants can approve budgets")
			}
			if *req.IsApproved {
				now := s.Clock.Now()
				out.BudgetIsApproved = true
				out.BudgetApprovedBy = &actor
				out.BudgetApprovedAt = &now
			} else {
				out.BudgetIsApproved = false
				out.BudgetApprovedBy = nil
				out.BudgetApprovedAt = nil
			}
		}

		if err := tx.Save(&out).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("budget for %d/%s already exists", out.BudgetYear, out.BudgetCategory)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AccountingService) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("budget_id = ?", id).Delete(&model.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("budget not found")
	}
	return nil
}

// BudgetExecution membandingkan anggaran tahun tsb dengan expense completed per kategori.
func (s *AccountingService) BudgetExecution(ctx context.Context, condominiumID uuid.UUID, year int) ([]dto.BudgetExecution, error) {
	budgets, err := s.ListBudgets(ctx, condominiumID, &year)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	var expenses []model.AccountingTransaction
	if err := s.DB.WithContext(ctx).
		Where("transaction_condominium_id = ? AND transaction_type = ? AND transaction_status = ?",
			condominiumID, model.TransactionTypeExpense, model.TransactionStatusCompleted).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	spent := lo.GroupBy(expenses, categoryOf)

	out := make([]dto.BudgetExecution, 0, len(budgets))
	for _, b := range budgets {
		executed := decimal.Zero
		for _, t := range spent[b.BudgetCategory] {
			executed = executed.Add(t.TransactionAmount)
		}
		out = append(out, dto.BudgetExecution{
			BudgetID:  b.BudgetID,
			Year:      b.BudgetYear,
			Category:  b.BudgetCategory,
			Budgeted:  b.BudgetAmount,
			Executed:  executed,
			Remaining: b.BudgetAmount.Sub(executed),
		})
	}
	return out, nil
}

// =======================================================
// EXPORT
// =======================================================

var transactionExportHeaders = []string{
	"Date", "Type", "Category", "Expense type", "Description", "Amount", "Status", "Reference",
}

func (s *AccountingService) ExportTransactions(ctx context.Context, q dto.ListTransactionQuery) (*excelize.File, error) {
	q.Offset, q.Limit = 0, 0
	rows, _, err := s.ListTransactions(ctx, q)
	if err != nil {
		return nil, err
	}
	data := lo.Map(rows, func(t model.AccountingTransaction, _ int) []any {
		return []any{
			t.TransactionDate.Format("2006-01-02"),
			t.TransactionType,
			categoryOf(t),
			lo.FromPtrOr(t.TransactionExpenseType, ""),
			t.TransactionDescription,
			t.TransactionAmount.InexactFloat64(),
			t.TransactionStatus,
			lo.FromPtrOr(t.TransactionReferenceNumber, ""),
		}
	})
	return helper.BuildSheet("Transactions", transactionExportHeaders, data)
}
