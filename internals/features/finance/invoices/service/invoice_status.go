package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
)

// DeriveStatus menghitung ulang status & pending dari paid/total/due date.
// Invoice yang sudah cancelled dikembalikan apa adanya.
func DeriveStatus(inv model.Invoice, now time.Time) model.Invoice {
	if inv.InvoiceStatus == model.InvoiceStatusCancelled {
		return inv
	}

	paid := inv.InvoicePaidAmount
	total := inv.InvoiceTotalAmount

	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		inv.InvoiceStatus = model.InvoiceStatusPending
		inv.InvoicePendingAmount = total.Sub(paid)
	case paid.GreaterThanOrEqual(total):
		inv.InvoiceStatus = model.InvoiceStatusPaid
		inv.InvoicePendingAmount = decimal.Zero
	default:
		inv.InvoiceStatus = model.InvoiceStatusPartial
		inv.InvoicePendingAmount = total.Sub(paid)
	}

	if inv.InvoiceStatus != model.InvoiceStatusPaid && isPastDue(inv.InvoiceDueDate, now) {
		inv.InvoiceStatus = model.InvoiceStatusOverdue
	}
	return inv
}

// isPastDue membandingkan tanggal saja (UTC): jatuh tempo hari ini belum overdue.
func isPastDue(due, now time.Time) bool {
	return helper.DateOnly(now).After(helper.DateOnly(due))
}

// statusChanged true bila hasil derive perlu dipersist.
func statusChanged(before, after model.Invoice) bool {
	return before.InvoiceStatus != after.InvoiceStatus ||
		!before.InvoicePendingAmount.Equal(after.InvoicePendingAmount)
}

// ComputeTotal: base + additional - discounts, tidak pernah negatif.
func ComputeTotal(base, additional, discounts decimal.Decimal) decimal.Decimal {
	total := base.Add(additional).Sub(discounts)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// GenerateInvoiceNumber: ADM-{condominium_id}-{YYYYMM}-{property_code}.
// Id kondominium ditulis utuh supaya nomor tidak bentrok antar kondominium.
func GenerateInvoiceNumber(condominiumID uuid.UUID, month, year int, propertyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(propertyCode))
	return fmt.Sprintf("ADM-%s-%d%02d-%s", condominiumID.String(), year, month, code)
}
