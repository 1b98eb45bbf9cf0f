// file: internals/features/finance/invoices/dto/invoice_dto.go
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condominio_backend/internals/features/finance/invoices/model"
)

/* ===================== Requests ===================== */

type CreateInvoiceRequest struct {
	CondominiumID     uuid.UUID        `json:"condominium_id" validate:"required"`
	PropertyID        uuid.UUID        `json:"property_id" validate:"required"`
	Month             int              `json:"month" validate:"required,min=1,max=12"`
	Year              int              `json:"year" validate:"required,min=2000,max=2100"`
	IssueDate         *time.Time       `json:"issue_date"`
	DueDate           time.Time        `json:"due_date" validate:"required"`
	BaseAmount        decimal.Decimal  `json:"base_amount"`
	AdditionalCharges *decimal.Decimal `json:"additional_charges"`
	Discounts         *decimal.Decimal `json:"discounts"`
	Notes             *string          `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateInvoiceRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

// UpdateInvoiceRequest: hanya field yang dikirim yang diubah.
type UpdateInvoiceRequest struct {
	DueDate           *time.Time       `json:"due_date"`
	BaseAmount        *decimal.Decimal `json:"base_amount"`
	AdditionalCharges *decimal.Decimal `json:"additional_charges"`
	Discounts         *decimal.Decimal `json:"discounts"`
	Notes             *string          `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateInvoiceRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type GenerateBillingRequest struct {
	Month       int             `json:"month" validate:"required"`
	Year        int             `json:"year" validate:"required,min=2000,max=2100"`
	Method      string          `json:"method" validate:"required"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	DueDays     *int            `json:"due_days" validate:"omitempty,min=0,max=120"`
	BlockID     *uuid.UUID      `json:"block_id"`
	PropertyIDs []uuid.UUID     `json:"property_ids"`
}

func (r *GenerateBillingRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type PaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time      `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=cash bank_transfer check card online other"`
	ReferenceNumber *string         `json:"reference_number" validate:"omitempty,max=120"`
	Notes           *string         `json:"notes" validate:"omitempty,max=2000"`
}

func (r *PaymentRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type UpdatePaymentRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time       `json:"payment_date"`
	PaymentMethod   *string          `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer check card online other"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=120"`
	Notes           *string          `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdatePaymentRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

// ListInvoiceQuery: filter list (?property_id=&month=&year=&status=&is_active=)
type ListInvoiceQuery struct {
	CondominiumID uuid.UUID
	PropertyID    *uuid.UUID
	Month         *int
	Year          *int
	Status        *model.InvoiceStatus
	IsActive      *bool
	Offset        int
	Limit         int
}

/* ===================== Responses ===================== */

type BillingResult struct {
	Created            []model.Invoice `json:"created"`
	SkippedPropertyIDs []uuid.UUID     `json:"skipped_property_ids"`
	Message            string          `json:"message"`
}

type InvoiceDetail struct {
	model.Invoice
	Payments []model.Payment `json:"payments"`
}

type PaymentResult struct {
	Payment *model.Payment `json:"payment,omitempty"`
	Invoice model.Invoice  `json:"invoice"`
}
