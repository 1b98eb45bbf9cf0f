package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===================== Condominium ===================== */

type CreateCondominiumRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ShortName   *string `json:"short_name" validate:"omitempty,max=60"`
	Address     *string `json:"address"`
	City        *string `json:"city" validate:"omitempty,max=120"`
	State       *string `json:"state" validate:"omitempty,max=120"`
	Country     *string `json:"country" validate:"omitempty,max=120"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=20"`
	Phone       *string `json:"phone" validate:"omitempty,max=40"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=40"`
	AdminName   *string `json:"admin_name" validate:"omitempty,max=255"`
	AdminPhone  *string `json:"admin_phone" validate:"omitempty,max=40"`
	AdminEmail  *string `json:"admin_email" validate:"omitempty,email,max=255"`
	Description *string `json:"description"`
}

// UpdateCondominiumRequest: pointer nil = tidak diubah.
type UpdateCondominiumRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	ShortName   *string `json:"short_name" validate:"omitempty,max=60"`
	Address     *string `json:"address"`
	City        *string `json:"city" validate:"omitempty,max=120"`
	State       *string `json:"state" validate:"omitempty,max=120"`
	Country     *string `json:"country" validate:"omitempty,max=120"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=20"`
	Phone       *string `json:"phone" validate:"omitempty,max=40"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=40"`
	AdminName   *string `json:"admin_name" validate:"omitempty,max=255"`
	AdminPhone  *string `json:"admin_phone" validate:"omitempty,max=40"`
	AdminEmail  *string `json:"admin_email" validate:"omitempty,email,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Dashboard: ringkasan condominium (di-cache singkat di redis).
type Dashboard struct {
	CondominiumID   uuid.UUID       `json:"condominium_id"`
	Properties      int64           `json:"properties"`
	Residents       int64           `json:"residents"`
	PendingInvoices int64           `json:"pending_invoices"`
	OverdueInvoices int64           `json:"overdue_invoices"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	OverdueAmount   decimal.Decimal `json:"overdue_amount"`
	MonthIncome     decimal.Decimal `json:"month_income"`
	MonthExpense    decimal.Decimal `json:"month_expense"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

/* ===================== Block ===================== */

type BlockRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
}

type UpdateBlockRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

/* ===================== Property ===================== */

type CreatePropertyRequest struct {
	Code        string           `json:"code" validate:"required,max=40"`
	Type        string           `json:"type" validate:"omitempty,oneof=apartment house commercial parking storage other"`
	BlockID     *uuid.UUID       `json:"block_id"`
	Area        *decimal.Decimal `json:"area"`
	Description *string          `json:"description"`
}

type UpdatePropertyRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=40"`
	Type        *string          `json:"type" validate:"omitempty,oneof=apartment house commercial parking storage other"`
	BlockID     *uuid.UUID       `json:"block_id"`
	ClearBlock  bool             `json:"clear_block"`
	Area        *decimal.Decimal `json:"area"`
	Description *string          `json:"description"`
}

type ListPropertyQuery struct {
	CondominiumID uuid.UUID
	BlockID       *uuid.UUID
	Search        string
	Offset        int
	Limit         int
}

/* ===================== Resident ===================== */

type CreateResidentRequest struct {
	FullName       string     `json:"full_name" validate:"required,max=255"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string    `json:"phone" validate:"omitempty,max=40"`
	DocumentType   *string    `json:"document_type" validate:"omitempty,max=20"`
	DocumentNumber *string    `json:"document_number" validate:"omitempty,max=40"`
	UserID         *uuid.UUID `json:"user_id"`
}

type UpdateResidentRequest struct {
	FullName       *string    `json:"full_name" validate:"omitempty,min=1,max=255"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string    `json:"phone" validate:"omitempty,max=40"`
	DocumentType   *string    `json:"document_type" validate:"omitempty,max=20"`
	DocumentNumber *string    `json:"document_number" validate:"omitempty,max=40"`
	UserID         *uuid.UUID `json:"user_id"`
	IsActive       *bool      `json:"is_active"`
}

type ListResidentQuery struct {
	CondominiumID uuid.UUID
	PropertyID    *uuid.UUID
	IsActive      *bool
	Search        string
	Offset        int
	Limit         int
}

// LinkPropertyRequest: relasi resident ↔ property.
type LinkPropertyRequest struct {
	PropertyID uuid.UUID        `json:"property_id" validate:"required"`
	Relation   string           `json:"relation" validate:"omitempty,oneof=owner tenant family"`
	Ownership  *decimal.Decimal `json:"ownership_percentage"`
	IsPrimary  bool             `json:"is_primary"`
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
}
