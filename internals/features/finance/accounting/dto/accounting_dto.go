package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===================== Transactions ===================== */

type CreateTransactionRequest struct {
	Type            string          `json:"type" validate:"required,oneof=income expense"`
	Category        *string         `json:"category" validate:"omitempty,max=100"`
	ExpenseType     *string         `json:"expense_type" validate:"omitempty,oneof=administration fines social_area_rental"`
	Description     string          `json:"description" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date" validate:"required"`
	ReferenceNumber *string         `json:"reference_number" validate:"omitempty,max=100"`
	PropertyID      *uuid.UUID      `json:"property_id"`
}

type UpdateTransactionRequest struct {
	Type            *string          `json:"type" validate:"omitempty,oneof=income expense"`
	Category        *string          `json:"category" validate:"omitempty,max=100"`
	ExpenseType     *string          `json:"expense_type" validate:"omitempty,oneof=administration fines social_area_rental"`
	Description     *string          `json:"description" validate:"omitempty,min=1"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Status          *string          `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=100"`
	PropertyID      *uuid.UUID       `json:"property_id"`
}

// ListTransactionQuery: ?type=&status=&property_id=&from=&to=
type ListTransactionQuery struct {
	CondominiumID uuid.UUID
	Type          *string
	Status        *string
	PropertyID    *uuid.UUID
	From          *time.Time
	To            *time.Time
	Offset        int
	Limit         int
}

// CategoryTotal: agregat per (type, category).
type CategoryTotal struct {
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// Summary: ringkasan periode; transaksi cancelled tidak dihitung.
type Summary struct {
	From       *time.Time      `json:"from"`
	To         *time.Time      `json:"to"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Balance    decimal.Decimal `json:"balance"`
	Pending    decimal.Decimal `json:"pending"`
	Categories []CategoryTotal `json:"categories"`
}

/* ===================== Budgets ===================== */

type CreateBudgetRequest struct {
	Year        int             `json:"year" validate:"required,min=2000,max=2100"`
	Category    string          `json:"category" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"budgeted_amount"`
	Description *string         `json:"description"`
}

type UpdateBudgetRequest struct {
	Year        *int             `json:"year" validate:"omitempty,min=2000,max=2100"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"budgeted_amount"`
	Description *string          `json:"description"`
	IsApproved  *bool            `json:"is_approved"`
}

// BudgetExecution: anggaran vs realisasi expense completed pada tahun & kategori yang sama.
type BudgetExecution struct {
	BudgetID  uuid.UUID       `json:"budget_id"`
	Year      int             `json:"year"`
	Category  string          `json:"category"`
	Budgeted  decimal.Decimal `json:"budgeted"`
	Executed  decimal.Decimal `json:"executed"`
	Remaining decimal.Decimal `json:"remaining"`
}
