package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/metrics"
)

/* =========================================================
   Midtrans Snap (pembayaran online invoice)
========================================================= */

// SnapGateway dipenuhi oleh *snap.Client; di test diganti stub.
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient: useProduction=false → Sandbox.
func NewSnapClient(serverKey string, useProduction bool) *snap.Client {
	var c snap.Client
	if useProduction {
		c.New(serverKey, midtrans.Production)
	} else {
		c.New(serverKey, midtrans.Sandbox)
	}
	return &c
}

type CheckoutService struct {
	Invoices  *InvoiceService
	Gateway   SnapGateway
	ServerKey string
}

func NewCheckoutService(invoices *InvoiceService, gateway SnapGateway, serverKey string) *CheckoutService {
	return &CheckoutService{Invoices: invoices, Gateway: gateway, ServerKey: serverKey}
}

// StartCheckout membuat sesi Snap untuk sisa tagihan invoice.
func (s *CheckoutService) StartCheckout(ctx context.Context, invoiceID uuid.UUID, actor *uuid.UUID) (*model.InvoiceCheckout, error) {
	if s.Gateway == nil {
		return nil, helper.Validation("online payments are not configured")
	}
	db := s.Invoices.DB.WithContext(ctx)

	var inv model.Invoice
	if err := db.First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("invoice not found")
		}
		return nil, err
	}
	inv = DeriveStatus(inv, s.Invoices.Clock.Now())
	if !inv.InvoiceIsActive || inv.InvoiceStatus == model.InvoiceStatusCancelled {
		return nil, helper.Validation("cannot pay an inactive or cancelled invoice")
	}
	if !inv.InvoicePendingAmount.IsPositive() {
		return nil, helper.Validation("invoice has nothing left to pay")
	}

	// Midtrans: gross_amount integer, tanpa desimal. Nominal yang disimpan
	// sama dengan yang ditagihkan ke gateway.
	charged := inv.InvoicePendingAmount.Ceil()
	gross := charged.IntPart()
	co := model.InvoiceCheckout{
		InvoiceCheckoutInvoiceID: inv.InvoiceID,
		InvoiceCheckoutOrderID:   fmt.Sprintf("%s-%d", inv.InvoiceNumber, s.Invoices.Clock.Now().Unix()),
		InvoiceCheckoutAmount:    charged,
		InvoiceCheckoutStatus:    model.CheckoutStatusPending,
		InvoiceCheckoutCreatedBy: actor,
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  co.InvoiceCheckoutOrderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       truncate(inv.InvoiceNumber, 50),
			Price:    gross,
			Qty:      1,
			Name:     truncate(fmt.Sprintf("Administración %02d/%d", inv.InvoiceMonth, inv.InvoiceYear), 50),
			Category: "ADMINISTRATION",
		}},
	}
	resp, merr := s.Gateway.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("midtrans: %s", merr.Message)
	}
	co.InvoiceCheckoutSnapToken = &resp.Token
	co.InvoiceCheckoutRedirectURL = &resp.RedirectURL

	if err := db.Create(&co).Error; err != nil {
		return nil, err
	}
	return &co, nil
}

// MidtransNotification: payload webhook yang dipakai (field lain diabaikan).
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// VerifySignature: SHA512(order_id + status_code + gross_amount + server_key).
func (s *CheckoutService) VerifySignature(n MidtransNotification) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" {
		return false
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + s.ServerKey))
	return hex.EncodeToString(sum[:]) == want
}

// HandleNotification memproses webhook secara idempotent: checkout yang sudah
// final tidak diproses ulang; settlement mencatat Payment lewat jalur biasa.
func (s *CheckoutService) HandleNotification(ctx context.Context, n MidtransNotification) (*model.InvoiceCheckout, error) {
	if !s.VerifySignature(n) {
		return nil, helper.Unauthorized("invalid signature")
	}

	var out model.InvoiceCheckout
	var recorded bool
	err := s.Invoices.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var co model.InvoiceCheckout
		if err := helper.ForUpdate(tx).First(&co, "invoice_checkout_order_id = ?", n.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("checkout not found for order %s", n.OrderID)
			}
			return err
		}
		out = co
		if co.InvoiceCheckoutStatus != model.CheckoutStatusPending {
			return nil
		}
		gross, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
		if err != nil || !gross.Equal(co.InvoiceCheckoutAmount) {
			return helper.Validation("gross_amount %q does not match checkout amount %s", n.GrossAmount, co.InvoiceCheckoutAmount.StringFixed(2))
		}

		raw := n.TransactionStatus
		updates := map[string]any{"invoice_checkout_raw_status": raw}

		switch {
		case raw == "settlement" || (raw == "capture" && (n.FraudStatus == "" || n.FraudStatus == "accept")):
			inv, err := lockInvoice(tx, co.InvoiceCheckoutInvoiceID)
			if err != nil {
				return err
			}
			// sisa pembulatan ke atas (< 1) tidak dicatat sebagai kelebihan bayar
			applied := co.InvoiceCheckoutAmount
			pending := inv.InvoiceTotalAmount.Sub(inv.InvoicePaidAmount)
			if applied.GreaterThan(pending) && applied.Sub(pending).LessThan(decimal.NewFromInt(1)) {
				applied = pending
			}
			ref := n.TransactionID
			pay, _, err := s.Invoices.recordPaymentTx(tx, co.InvoiceCheckoutInvoiceID, dto.PaymentRequest{
				Amount:          applied,
				PaymentMethod:   model.PaymentMethodOnline,
				ReferenceNumber: &ref,
			}, co.InvoiceCheckoutCreatedBy)
			if err != nil {
				if !helper.IsKind(err, helper.KindValidation) {
					return err
				}
				// dana sudah masuk tapi invoice berubah (dibayar/dibatalkan di tempat lain)
				s.Invoices.log.Error().Err(err).Str("order_id", n.OrderID).Msg("online payment could not be applied; manual reconciliation needed")
				updates["invoice_checkout_status"] = model.CheckoutStatusFailed
				co.InvoiceCheckoutStatus = model.CheckoutStatusFailed
				break
			}
			updates["invoice_checkout_status"] = model.CheckoutStatusPaid
			updates["invoice_checkout_payment_id"] = pay.PaymentID
			co.InvoiceCheckoutStatus = model.CheckoutStatusPaid
			co.InvoiceCheckoutPaymentID = &pay.PaymentID
			recorded = true

		case raw == "deny" || raw == "cancel" || raw == "expire" || raw == "failure":
			updates["invoice_checkout_status"] = model.CheckoutStatusFailed
			co.InvoiceCheckoutStatus = model.CheckoutStatusFailed
		}

		co.InvoiceCheckoutRawStatus = &raw
		if err := tx.Model(&model.InvoiceCheckout{}).
			Where("invoice_checkout_id = ?", co.InvoiceCheckoutID).
			Updates(updates).Error; err != nil {
			return err
		}
		out = co
		return nil
	})
	if err != nil {
		return nil, err
	}
	if recorded {
		metrics.PaymentsRecorded.WithLabelValues(model.PaymentMethodOnline).Inc()
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
