package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/metrics"
)

// =======================================================
// PAYMENTS
// Semua mutasi berjalan dalam satu transaksi dengan row lock pada invoice,
// sehingga paid_amount tidak bisa lost-update saat dua pembayaran masuk bersamaan.
// =======================================================

func (s *InvoiceService) FindPayment(ctx context.Context, id uuid.UUID) (*model.Payment, *model.Invoice, error) {
	var pay model.Payment
	if err := s.DB.WithContext(ctx).First(&pay, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, helper.NotFound("payment not found")
		}
		return nil, nil, err
	}
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_id = ?", pay.PaymentInvoiceID).Error; err != nil {
		return nil, nil, err
	}
	return &pay, &inv, nil
}

func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req dto.PaymentRequest, actor *uuid.UUID) (*dto.PaymentResult, error) {
	var res dto.PaymentResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, inv, err := s.recordPaymentTx(tx, invoiceID, req, actor)
		if err != nil {
			return err
		}
		res = dto.PaymentResult{Payment: pay, Invoice: inv}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(req.PaymentMethod).Inc()
	return &res, nil
}

// recordPaymentTx dipakai juga oleh webhook checkout (dalam transaksi pemanggil).
func (s *InvoiceService) recordPaymentTx(tx *gorm.DB, invoiceID uuid.UUID, req dto.PaymentRequest, actor *uuid.UUID) (*model.Payment, model.Invoice, error) {
	inv, err := lockInvoice(tx, invoiceID)
	if err != nil {
		return nil, inv, err
	}
	if !inv.InvoiceIsActive {
		return nil, inv, helper.Validation("cannot record a payment on an inactive invoice")
	}
	if inv.InvoiceStatus == model.InvoiceStatusCancelled {
		return nil, inv, helper.Validation("cannot record a payment on a cancelled invoice")
	}
	if !req.Amount.IsPositive() {
		return nil, inv, helper.Validation("payment amount must be greater than zero")
	}

	newPaid := inv.InvoicePaidAmount.Add(req.Amount)
	if newPaid.GreaterThan(inv.InvoiceTotalAmount) {
		return nil, inv, helper.Validation("payment exceeds the invoice total").WithDetails(map[string]string{
			"pending_amount": inv.InvoiceTotalAmount.Sub(inv.InvoicePaidAmount).StringFixed(2),
		})
	}

	now := s.Clock.Now()
	payDate := now
	if req.PaymentDate != nil {
		payDate = *req.PaymentDate
	}
	pay := model.Payment{
		PaymentInvoiceID:       inv.InvoiceID,
		PaymentAmount:          req.Amount,
		PaymentDate:            payDate.UTC(),
		PaymentMethod:          req.PaymentMethod,
		PaymentReferenceNumber: trimPtr(req.ReferenceNumber),
		PaymentNotes:           trimPtr(req.Notes),
		PaymentCreatedBy:       actor,
	}
	if err := tx.Create(&pay).Error; err != nil {
		return nil, inv, err
	}

	inv.InvoicePaidAmount = newPaid
	inv = DeriveStatus(inv, now)
	if err := persistDerived(tx, inv); err != nil {
		return nil, inv, err
	}
	return &pay, inv, nil
}

func (s *InvoiceService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, req dto.UpdatePaymentRequest) (*dto.PaymentResult, error) {
	var res dto.PaymentResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pay model.Payment
		if err := tx.First(&pay, "payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("payment not found")
			}
			return err
		}
		inv, err := lockInvoice(tx, pay.PaymentInvoiceID)
		if err != nil {
			return err
		}
		if !inv.InvoiceIsActive || inv.InvoiceStatus == model.InvoiceStatusCancelled {
			return helper.Validation("payments of an inactive or cancelled invoice cannot be modified")
		}

		newAmount := pay.PaymentAmount
		if req.Amount != nil {
			newAmount = *req.Amount
		}
		if !newAmount.IsPositive() {
			return helper.Validation("payment amount must be greater than zero")
		}
		newPaid := inv.InvoicePaidAmount.Sub(pay.PaymentAmount).Add(newAmount)
		if newPaid.GreaterThan(inv.InvoiceTotalAmount) {
			return helper.Validation("payment exceeds the invoice total").WithDetails(map[string]string{
				"max_amount": inv.InvoiceTotalAmount.Sub(inv.InvoicePaidAmount).Add(pay.PaymentAmount).StringFixed(2),
			})
		}

		pay.PaymentAmount = newAmount
		if req.PaymentDate != nil {
			pay.PaymentDate = req.PaymentDate.UTC()
		}
		if req.PaymentMethod != nil {
			pay.PaymentMethod = *req.PaymentMethod
		}
		if req.ReferenceNumber != nil {
			pay.PaymentReferenceNumber = trimPtr(req.ReferenceNumber)
		}
		if req.Notes != nil {
			pay.PaymentNotes = trimPtr(req.Notes)
		}
		if err := tx.Model(&model.Payment{}).Where("payment_id = ?", pay.PaymentID).Updates(map[string]any{
			"payment_amount":           pay.PaymentAmount,
			"payment_date":             pay.PaymentDate,
			"payment_method":           pay.PaymentMethod,
			"payment_reference_number": pay.PaymentReferenceNumber,
			"payment_notes":            pay.PaymentNotes,
		}).Error; err != nil {
			return err
		}

		inv.InvoicePaidAmount = newPaid
		inv = DeriveStatus(inv, s.Clock.Now())
		if err := persistDerived(tx, inv); err != nil {
			return err
		}
		res = dto.PaymentResult{Payment: &pay, Invoice: inv}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *InvoiceService) DeletePayment(ctx context.Context, paymentID uuid.UUID) (*model.Invoice, error) {
	var out model.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pay model.Payment
		if err := tx.First(&pay, "payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("payment not found")
			}
			return err
		}
		inv, err := lockInvoice(tx, pay.PaymentInvoiceID)
		if err != nil {
			return err
		}

		newPaid := inv.InvoicePaidAmount.Sub(pay.PaymentAmount)
		if newPaid.IsNegative() {
			newPaid = decimal.Zero
		}
		if err := tx.Delete(&model.Payment{}, "payment_id = ?", pay.PaymentID).Error; err != nil {
			return err
		}

		inv.InvoicePaidAmount = newPaid
		inv = DeriveStatus(inv, s.Clock.Now())
		if err := persistDerived(tx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
