// file: internals/features/finance/accounting/model/accounting_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums ===================== */

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// Jenis biaya untuk transaksi yang terkait properti.
const (
	ExpenseTypeAdministration   = "administration"
	ExpenseTypeFines            = "fines"
	ExpenseTypeSocialAreaRental = "social_area_rental"
)

/* ===================== AccountingTransaction ===================== */

type AccountingTransaction struct {
	TransactionID            uuid.UUID  `json:"transaction_id" gorm:"type:uuid;primaryKey;column:transaction_id"`
	TransactionCondominiumID uuid.UUID  `json:"transaction_condominium_id" gorm:"type:uuid;not null;index:idx_transaction_condominium_date;column:transaction_condominium_id"`
	TransactionPropertyID    *uuid.UUID `json:"transaction_property_id" gorm:"type:uuid;index;column:transaction_property_id"`

	TransactionType            string          `json:"transaction_type" gorm:"type:varchar(10);not null;column:transaction_type"`
	TransactionCategory        *string         `json:"transaction_category" gorm:"size:100;column:transaction_category"`
	TransactionExpenseType     *string         `json:"transaction_expense_type" gorm:"type:varchar(30);column:transaction_expense_type"`
	TransactionDescription     string          `json:"transaction_description" gorm:"type:text;not null;column:transaction_description"`
	TransactionAmount          decimal.Decimal `json:"transaction_amount" gorm:"type:numeric(14,2);not null;column:transaction_amount"`
	TransactionDate            time.Time       `json:"transaction_date" gorm:"not null;index:idx_transaction_condominium_date;column:transaction_date"`
	TransactionStatus          string          `json:"transaction_status" gorm:"type:varchar(20);not null;column:transaction_status"`
	TransactionReferenceNumber *string         `json:"transaction_reference_number" gorm:"size:100;column:transaction_reference_number"`

	TransactionCreatedBy *uuid.UUID `json:"transaction_created_by" gorm:"type:uuid;column:transaction_created_by"`
	TransactionCreatedAt time.Time  `json:"transaction_created_at" gorm:"not null;autoCreateTime;column:transaction_created_at"`
	TransactionUpdatedAt time.Time  `json:"transaction_updated_at" gorm:"not null;autoUpdateTime;column:transaction_updated_at"`
}

func (AccountingTransaction) TableName() string { return "accounting_transactions" }

func (m *AccountingTransaction) BeforeCreate(tx *gorm.DB) error {
	if m.TransactionID == uuid.Nil {
		m.TransactionID = uuid.New()
	}
	return nil
}

/* ===================== Budget ===================== */

// Budget: anggaran tahunan per kategori. Setelah disetujui hanya admin/accountant yang boleh ubah.
type Budget struct {
	BudgetID            uuid.UUID       `json:"budget_id" gorm:"type:uuid;primaryKey;column:budget_id"`
	BudgetCondominiumID uuid.UUID       `json:"budget_condominium_id" gorm:"type:uuid;not null;column:budget_condominium_id;uniqueIndex:uq_budget_year_category"`
	BudgetYear          int             `json:"budget_year" gorm:"not null;column:budget_year;uniqueIndex:uq_budget_year_category"`
	BudgetCategory      string          `json:"budget_category" gorm:"size:100;not null;column:budget_category;uniqueIndex:uq_budget_year_category"`
	BudgetAmount        decimal.Decimal `json:"budget_amount" gorm:"type:numeric(14,2);not null;column:budget_amount"`
	BudgetDescription   *string         `json:"budget_description" gorm:"type:text;column:budget_description"`

	BudgetIsApproved bool       `json:"budget_is_approved" gorm:"not null;column:budget_is_approved"`
	BudgetApprovedBy *uuid.UUID `json:"budget_approved_by" gorm:"type:uuid;column:budget_approved_by"`
	BudgetApprovedAt *time.Time `json:"budget_approved_at" gorm:"column:budget_approved_at"`

	BudgetCreatedAt time.Time `json:"budget_created_at" gorm:"not null;autoCreateTime;column:budget_created_at"`
	BudgetUpdatedAt time.Time `json:"budget_updated_at" gorm:"not null;autoUpdateTime;column:budget_updated_at"`
}

func (Budget) TableName() string { return "budgets" }

func (m *Budget) BeforeCreate(tx *gorm.DB) error {
	if m.BudgetID == uuid.Nil {
		m.BudgetID = uuid.New()
	}
	return nil
}
