// file: internals/features/finance/invoices/model/invoice_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Status Constants ===================== */

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

/* ===================== Model ===================== */

// Invoice: tagihan administrasi bulanan per properti.
// Unik (property, month, year) hanya untuk baris aktif.
type Invoice struct {
	InvoiceID            uuid.UUID `json:"invoice_id" gorm:"type:uuid;primaryKey;column:invoice_id"`
	InvoiceCondominiumID uuid.UUID `json:"invoice_condominium_id" gorm:"type:uuid;not null;index:idx_invoice_condominium_period;column:invoice_condominium_id"`
	InvoicePropertyID    uuid.UUID `json:"invoice_property_id" gorm:"type:uuid;not null;column:invoice_property_id;uniqueIndex:uq_invoice_active_period,where:invoice_is_active = true"`
	InvoiceNumber        string    `json:"invoice_number" gorm:"size:120;not null;uniqueIndex;column:invoice_number"`

	InvoiceMonth int `json:"invoice_month" gorm:"not null;column:invoice_month;index:idx_invoice_condominium_period;uniqueIndex:uq_invoice_active_period,where:invoice_is_active = true"`
	InvoiceYear  int `json:"invoice_year" gorm:"not null;column:invoice_year;index:idx_invoice_condominium_period;uniqueIndex:uq_invoice_active_period,where:invoice_is_active = true"`

	InvoiceIssueDate time.Time `json:"invoice_issue_date" gorm:"not null;column:invoice_issue_date"`
	InvoiceDueDate   time.Time `json:"invoice_due_date" gorm:"not null;column:invoice_due_date"`

	// Amounts
	InvoiceBaseAmount        decimal.Decimal `json:"invoice_base_amount" gorm:"type:numeric(14,2);not null;column:invoice_base_amount"`
	InvoiceAdditionalCharges decimal.Decimal `json:"invoice_additional_charges" gorm:"type:numeric(14,2);not null;column:invoice_additional_charges"`
	InvoiceDiscounts         decimal.Decimal `json:"invoice_discounts" gorm:"type:numeric(14,2);not null;column:invoice_discounts"`
	InvoiceTotalAmount       decimal.Decimal `json:"invoice_total_amount" gorm:"type:numeric(14,2);not null;column:invoice_total_amount"`
	InvoicePaidAmount        decimal.Decimal `json:"invoice_paid_amount" gorm:"type:numeric(14,2);not null;column:invoice_paid_amount"`
	InvoicePendingAmount     decimal.Decimal `json:"invoice_pending_amount" gorm:"type:numeric(14,2);not null;column:invoice_pending_amount"`

	InvoiceStatus   InvoiceStatus `json:"invoice_status" gorm:"type:varchar(20);not null;index;column:invoice_status"`
	InvoiceIsActive bool          `json:"invoice_is_active" gorm:"not null;default:true;column:invoice_is_active"`
	InvoiceNotes    *string       `json:"invoice_notes" gorm:"type:text;column:invoice_notes"`

	InvoiceCreatedBy *uuid.UUID `json:"invoice_created_by" gorm:"type:uuid;column:invoice_created_by"`
	InvoiceCreatedAt time.Time  `json:"invoice_created_at" gorm:"not null;autoCreateTime;column:invoice_created_at"`
	InvoiceUpdatedAt time.Time  `json:"invoice_updated_at" gorm:"not null;autoUpdateTime;column:invoice_updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	return nil
}

/* ===================== Payment ===================== */

const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodCard         = "card"
	PaymentMethodOnline       = "online"
	PaymentMethodOther        = "other"
)

type Payment struct {
	PaymentID              uuid.UUID       `json:"payment_id" gorm:"type:uuid;primaryKey;column:payment_id"`
	PaymentInvoiceID       uuid.UUID       `json:"payment_invoice_id" gorm:"type:uuid;not null;index;column:payment_invoice_id"`
	PaymentAmount          decimal.Decimal `json:"payment_amount" gorm:"type:numeric(14,2);not null;column:payment_amount"`
	PaymentDate            time.Time       `json:"payment_date" gorm:"not null;column:payment_date"`
	PaymentMethod          string          `json:"payment_method" gorm:"size:30;not null;column:payment_method"`
	PaymentReferenceNumber *string         `json:"payment_reference_number" gorm:"size:120;column:payment_reference_number"`
	PaymentNotes           *string         `json:"payment_notes" gorm:"type:text;column:payment_notes"`

	PaymentCreatedBy *uuid.UUID `json:"payment_created_by" gorm:"type:uuid;column:payment_created_by"`
	PaymentCreatedAt time.Time  `json:"payment_created_at" gorm:"not null;autoCreateTime;column:payment_created_at"`
	PaymentUpdatedAt time.Time  `json:"payment_updated_at" gorm:"not null;autoUpdateTime;column:payment_updated_at"`
}

func (Payment) TableName() string { return "invoice_payments" }

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
