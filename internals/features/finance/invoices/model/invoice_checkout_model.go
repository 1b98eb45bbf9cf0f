package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CheckoutStatusPending = "pending"
	CheckoutStatusPaid    = "paid"
	CheckoutStatusFailed  = "failed"
)

// InvoiceCheckout: satu sesi pembayaran online (Midtrans Snap) untuk sebuah invoice.
// order_id unik supaya notifikasi webhook idempotent.
type InvoiceCheckout struct {
	InvoiceCheckoutID          uuid.UUID       `json:"invoice_checkout_id" gorm:"type:uuid;primaryKey;column:invoice_checkout_id"`
	InvoiceCheckoutInvoiceID   uuid.UUID       `json:"invoice_checkout_invoice_id" gorm:"type:uuid;not null;index;column:invoice_checkout_invoice_id"`
	InvoiceCheckoutOrderID     string          `json:"invoice_checkout_order_id" gorm:"size:80;not null;uniqueIndex;column:invoice_checkout_order_id"`
	InvoiceCheckoutAmount      decimal.Decimal `json:"invoice_checkout_amount" gorm:"type:numeric(14,2);not null;column:invoice_checkout_amount"`
	InvoiceCheckoutStatus      string          `json:"invoice_checkout_status" gorm:"size:20;not null;column:invoice_checkout_status"`
	InvoiceCheckoutSnapToken   *string         `json:"invoice_checkout_snap_token" gorm:"size:255;column:invoice_checkout_snap_token"`
	InvoiceCheckoutRedirectURL *string         `json:"invoice_checkout_redirect_url" gorm:"type:text;column:invoice_checkout_redirect_url"`
	InvoiceCheckoutPaymentID   *uuid.UUID      `json:"invoice_checkout_payment_id" gorm:"type:uuid;column:invoice_checkout_payment_id"`
	InvoiceCheckoutRawStatus   *string         `json:"invoice_checkout_raw_status" gorm:"size:40;column:invoice_checkout_raw_status"`

	InvoiceCheckoutCreatedBy *uuid.UUID `json:"invoice_checkout_created_by" gorm:"type:uuid;column:invoice_checkout_created_by"`
	InvoiceCheckoutCreatedAt time.Time  `json:"invoice_checkout_created_at" gorm:"not null;autoCreateTime;column:invoice_checkout_created_at"`
	InvoiceCheckoutUpdatedAt time.Time  `json:"invoice_checkout_updated_at" gorm:"not null;autoUpdateTime;column:invoice_checkout_updated_at"`
}

func (InvoiceCheckout) TableName() string { return "invoice_checkouts" }

func (m *InvoiceCheckout) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceCheckoutID == uuid.Nil {
		m.InvoiceCheckoutID = uuid.New()
	}
	return nil
}
