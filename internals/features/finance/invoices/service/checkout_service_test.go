package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

type stubSnap struct{ calls int }

func (s *stubSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	s.calls++
	return &snap.Response{Token: "tok-" + req.TransactionDetails.OrderID, RedirectURL: "https://pay.example/" + req.TransactionDetails.OrderID}, nil
}

const testServerKey = "SB-server-key"

func signed(orderID, status, gross, txStatus string) MidtransNotification {
	sum := sha512.Sum512([]byte(orderID + status + gross + testServerKey))
	return MidtransNotification{
		TransactionStatus: txStatus,
		StatusCode:        status,
		GrossAmount:       gross,
		OrderID:           orderID,
		SignatureKey:      hex.EncodeToString(sum[:]),
		TransactionID:     "trx-" + orderID,
	}
}

func TestCheckoutSettlementRecordsPaymentOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.March, 5))
	props := testutil.CreateProperties(t, f.db, f.condoID, nil, "A", 1)
	inv := f.createInvoice(t, props[0].PropertyID, 3, 2024, 1000, date(2024, time.March, 16))
	if _, err := f.svc.RecordPayment(ctx, inv.InvoiceID, pay(400), nil); err != nil {
		t.Fatal(err)
	}

	gw := &stubSnap{}
	co := NewCheckoutService(f.svc, gw, testServerKey)
	session, err := co.StartCheckout(ctx, inv.InvoiceID, nil)
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	if !session.InvoiceCheckoutAmount.Equal(d(600)) || session.InvoiceCheckoutSnapToken == nil {
		t.Fatalf("checkout = %s token=%v", session.InvoiceCheckoutAmount, session.InvoiceCheckoutSnapToken)
	}

	notif := signed(session.InvoiceCheckoutOrderID, "200", "600.00", "settlement")
	for i := 0; i < 2; i++ {
		got, err := co.HandleNotification(ctx, notif)
		if err != nil {
			t.Fatalf("notification %d: %v", i, err)
		}
		if got.InvoiceCheckoutStatus != model.CheckoutStatusPaid {
			t.Fatalf("checkout status = %s, want paid", got.InvoiceCheckoutStatus)
		}
	}

	detail, err := f.svc.GetInvoice(ctx, inv.InvoiceID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.InvoiceStatus != model.InvoiceStatusPaid || len(detail.Payments) != 2 {
		t.Fatalf("invoice = %s with %d payments, want paid with 2", detail.InvoiceStatus, len(detail.Payments))
	}
}

func TestCheckoutRejectsBadSignature(t *testing.T) {
	f := newFixture(t, date(2024, time.March, 5))
	co := NewCheckoutService(f.svc, &stubSnap{}, testServerKey)

	notif := signed("ORDER-1", "200", "100.00", "settlement")
	notif.GrossAmount = "1.00"
	_, err := co.HandleNotification(context.Background(), notif)
	mustKind(t, err, helper.KindUnauthorized)
}

func TestCheckoutExpireMarksFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.March, 5))
	props := testutil.CreateProperties(t, f.db, f.condoID, nil, "A", 1)
	inv := f.createInvoice(t, props[0].PropertyID, 3, 2024, 1000, date(2024, time.March, 16))

	co := NewCheckoutService(f.svc, &stubSnap{}, testServerKey)
	session, err := co.StartCheckout(ctx, inv.InvoiceID, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := co.HandleNotification(ctx, signed(session.InvoiceCheckoutOrderID, "407", "1000.00", "expire"))
	if err != nil {
		t.Fatal(err)
	}
	if got.InvoiceCheckoutStatus != model.CheckoutStatusFailed {
		t.Fatalf("status = %s, want failed", got.InvoiceCheckoutStatus)
	}

	var n int64
	f.db.Model(&model.Payment{}).Where("payment_invoice_id = ?", inv.InvoiceID).Count(&n)
	if n != 0 {
		t.Fatalf("expired checkout recorded %d payments", n)
	}
}

func TestCheckoutRefusesPaidInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.March, 5))
	props := testutil.CreateProperties(t, f.db, f.condoID, nil, "A", 1)
	inv := f.createInvoice(t, props[0].PropertyID, 3, 2024, 1000, date(2024, time.March, 16))
	if _, err := f.svc.RecordPayment(ctx, inv.InvoiceID, dto.PaymentRequest{Amount: d(1000), PaymentMethod: model.PaymentMethodCash}, nil); err != nil {
		t.Fatal(err)
	}

	gw := &stubSnap{}
	_, err := NewCheckoutService(f.svc, gw, testServerKey).StartCheckout(ctx, inv.InvoiceID, nil)
	mustKind(t, err, helper.KindValidation)
	if gw.calls != 0 {
		t.Fatal("gateway must not be called for a settled invoice")
	}
}

func TestCheckoutChargesAndRecordsRoundedAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.March, 5))
	props := testutil.CreateProperties(t, f.db, f.condoID, nil, "A", 1)
	inv := f.createInvoice(t, props[0].PropertyID, 3, 2024, 1000, date(2024, time.March, 16))
	partial := dto.PaymentRequest{Amount: decimal.RequireFromString("400.50"), PaymentMethod: model.PaymentMethodCash}
	if _, err := f.svc.RecordPayment(ctx, inv.InvoiceID, partial, nil); err != nil {
		t.Fatal(err)
	}

	co := NewCheckoutService(f.svc, &stubSnap{}, testServerKey)
	session, err := co.StartCheckout(ctx, inv.InvoiceID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !session.InvoiceCheckoutAmount.Equal(d(600)) {
		t.Fatalf("checkout amount = %s, want the charged 600", session.InvoiceCheckoutAmount)
	}

	got, err := co.HandleNotification(ctx, signed(session.InvoiceCheckoutOrderID, "200", "600.00", "settlement"))
	if err != nil {
		t.Fatalf("settlement: %v", err)
	}
	if got.InvoiceCheckoutStatus != model.CheckoutStatusPaid {
		t.Fatalf("checkout status = %s, want paid", got.InvoiceCheckoutStatus)
	}
	detail, err := f.svc.GetInvoice(ctx, inv.InvoiceID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.InvoiceStatus != model.InvoiceStatusPaid || !detail.InvoicePaidAmount.Equal(d(1000)) {
		t.Fatalf("invoice = %s paid %s, want PAID/1000", detail.InvoiceStatus, detail.InvoicePaidAmount)
	}
}

func TestCheckoutRejectsMismatchedGrossAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.March, 5))
	props := testutil.CreateProperties(t, f.db, f.condoID, nil, "A", 1)
	inv := f.createInvoice(t, props[0].PropertyID, 3, 2024, 1000, date(2024, time.March, 16))

	co := NewCheckoutService(f.svc, &stubSnap{}, testServerKey)
	session, err := co.StartCheckout(ctx, inv.InvoiceID, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, gross := range []string{"1.00", "abc", ""} {
		_, err := co.HandleNotification(ctx, signed(session.InvoiceCheckoutOrderID, "200", gross, "settlement"))
		mustKind(t, err, helper.KindValidation)
	}

	var n int64
	f.db.Model(&model.Payment{}).Where("payment_invoice_id = ?", inv.InvoiceID).Count(&n)
	if n != 0 {
		t.Fatalf("mismatched notification recorded %d payments", n)
	}
	var stored model.InvoiceCheckout
	if err := f.db.First(&stored, "invoice_checkout_id = ?", session.InvoiceCheckoutID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.InvoiceCheckoutStatus != model.CheckoutStatusPending {
		t.Fatalf("checkout status = %s, want still pending", stored.InvoiceCheckoutStatus)
	}
}
