// file: internals/features/finance/accounting/service/transaction_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/finance/accounting/dto"
	"condominio_backend/internals/features/finance/accounting/model"
	helper "condominio_backend/internals/helpers"
)

const uncategorized = "uncategorized"

type AccountingService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewAccountingService(db *gorm.DB, clock helper.Clock) *AccountingService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &AccountingService{DB: db, Clock: clock, log: configs.WithComponent("accounting")}
}

// =======================================================
// TRANSACTIONS
// =======================================================

func (s *AccountingService) CreateTransaction(ctx context.Context, condominiumID uuid.UUID, req dto.CreateTransactionRequest, actor *uuid.UUID) (*model.AccountingTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, helper.Validation("amount must be greater than zero")
	}
	db := s.DB.WithContext(ctx)
	if err := ensureCondominium(db, condominiumID); err != nil {
		return nil, err
	}
	if err := ensurePropertyInCondominium(db, req.PropertyID, condominiumID); err != nil {
		return nil, err
	}

	row := model.AccountingTransaction{
		TransactionCondominiumID:   condominiumID,
		TransactionPropertyID:      req.PropertyID,
		TransactionType:            req.Type,
		TransactionCategory:        trimPtr(req.Category),
		TransactionExpenseType:     req.ExpenseType,
		TransactionDescription:     strings.TrimSpace(req.Description),
		TransactionAmount:          req.Amount.Round(2),
		TransactionDate:            req.TransactionDate.UTC(),
		TransactionStatus:          model.TransactionStatusPending,
		TransactionReferenceNumber: trimPtr(req.ReferenceNumber),
		TransactionCreatedBy:       actor,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *AccountingService) FindTransaction(ctx context.Context, id uuid.UUID) (*model.AccountingTransaction, error) {
	var row model.AccountingTransaction
	if err := s.DB.WithContext(ctx).First(&row, "transaction_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("transaction not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *AccountingService) filtered(ctx context.Context, q dto.ListTransactionQuery) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&model.AccountingTransaction{}).
		Where("transaction_condominium_id = ?", q.CondominiumID)
	if q.Type != nil {
		tx = tx.Where("transaction_type = ?", *q.Type)
	}
	if q.Status != nil {
		tx = tx.Where("transaction_status = ?", *q.Status)
	}
	if q.PropertyID != nil {
		tx = tx.Where("transaction_property_id = ?", *q.PropertyID)
	}
	if q.From != nil {
		tx = tx.Where("transaction_date >= ?", helper.DateOnly(*q.From))
	}
	if q.To != nil {
		// inklusif sampai akhir hari "to"
		tx = tx.Where("transaction_date < ?", helper.DateOnly(*q.To).AddDate(0, 0, 1))
	}
	return tx
}

func (s *AccountingService) ListTransactions(ctx context.Context, q dto.ListTransactionQuery) ([]model.AccountingTransaction, int64, error) {
	tx := s.filtered(ctx, q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.AccountingTransaction
	list := tx.Order("transaction_date DESC, transaction_created_at DESC")
	if q.Limit > 0 {
		list = list.Offset(q.Offset).Limit(q.Limit)
	}
	if err := list.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *AccountingService) UpdateTransaction(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (*model.AccountingTransaction, error) {
	var out model.AccountingTransaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&out, "transaction_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("transaction not found")
			}
			return err
		}

		if req.Type != nil {
			out.TransactionType = *req.Type
		}
		if req.Category != nil {
			out.TransactionCategory = trimPtr(req.Category)
		}
		if req.ExpenseType != nil {
			out.TransactionExpenseType = req.ExpenseType
		}
		if req.Description != nil {
			out.TransactionDescription = strings.TrimSpace(*req.Description)
		}
		if req.Amount != nil {
			if !req.Amount.IsPositive() {
				return helper.Validation("amount must be greater than zero")
			}
			out.TransactionAmount = req.Amount.Round(2)
		}
		if req.TransactionDate != nil {
			out.TransactionDate = req.TransactionDate.UTC()
		}
		if req.Status != nil {
			out.TransactionStatus = *req.Status
		}
		if req.ReferenceNumber != nil {
			out.TransactionReferenceNumber = trimPtr(req.ReferenceNumber)
		}
		if req.PropertyID != nil {
			if err := ensurePropertyInCondominium(tx, req.PropertyID, out.TransactionCondominiumID); err != nil {
				return err
			}
			out.TransactionPropertyID = req.PropertyID
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AccountingService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("transaction_id = ?", id).Delete(&model.AccountingTransaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("transaction not found")
	}
	return nil
}

// =======================================================
// SUMMARY
// =======================================================

// Summarize menjumlah transaksi non-cancelled pada rentang [from, to].
func (s *AccountingService) Summarize(ctx context.Context, q dto.ListTransactionQuery) (*dto.Summary, error) {
	q.Status = nil
	var rows []model.AccountingTransaction
	if err := s.filtered(ctx, q).
		Where("transaction_status <> ?", model.TransactionStatusCancelled).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return SummarizeTransactions(rows, q.From, q.To), nil
}

// SummarizeTransactions (pure) dipakai juga oleh dashboard condominium.
func SummarizeTransactions(rows []model.AccountingTransaction, from, to *time.Time) *dto.Summary {
	out := &dto.Summary{From: from, To: to, Income: decimal.Zero, Expense: decimal.Zero, Pending: decimal.Zero}

	live := lo.Filter(rows, func(t model.AccountingTransaction, _ int) bool {
		return t.TransactionStatus != model.TransactionStatusCancelled
	})
	for _, t := range live {
		switch t.TransactionType {
		case model.TransactionTypeIncome:
			out.Income = out.Income.Add(t.TransactionAmount)
		case model.TransactionTypeExpense:
			out.Expense = out.Expense.Add(t.TransactionAmount)
		}
		if t.TransactionStatus == model.TransactionStatusPending {
			out.Pending = out.Pending.Add(t.TransactionAmount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)

	groups := lo.GroupBy(live, func(t model.AccountingTransaction) string {
		return t.TransactionType + "|" + categoryOf(t)
	})
	out.Categories = make([]dto.CategoryTotal, 0, len(groups))
	for _, g := range groups {
		ct := dto.CategoryTotal{Type: g[0].TransactionType, Category: categoryOf(g[0]), Total: decimal.Zero, Count: int64(len(g))}
		for _, t := range g {
			ct.Total = ct.Total.Add(t.TransactionAmount)
		}
		out.Categories = append(out.Categories, ct)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Category < b.Category
	})
	return out
}

func categoryOf(t model.AccountingTransaction) string {
	if t.TransactionCategory == nil || *t.TransactionCategory == "" {
		return uncategorized
	}
	return *t.TransactionCategory
}

/* ===================== helpers ===================== */

func ensureCondominium(db *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := db.Model(&condoModel.Condominium{}).Where("condominium_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NotFound("condominium not found")
	}
	return nil
}

func ensurePropertyInCondominium(db *gorm.DB, propertyID *uuid.UUID, condominiumID uuid.UUID) error {
	if propertyID == nil {
		return nil
	}
	var n int64
	if err := db.Model(&condoModel.Property{}).
		Where("property_id = ? AND property_condominium_id = ?", *propertyID, condominiumID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.Validation("property does not belong to this condominium")
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
