package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	"condominio_backend/internals/features/finance/invoices/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

/* =======================================================
   PAYMENTS
======================================================= */

// POST /api/invoices/:id/payments
func (h *InvoiceController) RecordPayment(c *fiber.Ctx) error {
	p, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.PaymentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := h.Svc.RecordPayment(c.UserContext(), inv.InvoiceID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", res)
}

func (h *InvoiceController) guardPayment(c *fiber.Ctx) (*model.Payment, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	pay, inv, err := h.Svc.FindPayment(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureAccounting(p, inv.InvoiceCondominiumID, featureBilling); err != nil {
		return nil, err
	}
	return pay, nil
}

// PATCH /api/payments/:id
func (h *InvoiceController) UpdatePayment(c *fiber.Ctx) error {
	pay, err := h.guardPayment(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdatePaymentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := h.Svc.UpdatePayment(c.UserContext(), pay.PaymentID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "payment updated", res)
}

// DELETE /api/payments/:id
func (h *InvoiceController) DeletePayment(c *fiber.Ctx) error {
	pay, err := h.guardPayment(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	inv, err := h.Svc.DeletePayment(c.UserContext(), pay.PaymentID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "payment deleted", inv)
}

/* =======================================================
   ONLINE CHECKOUT (Midtrans)
======================================================= */

// POST /api/invoices/:id/checkout
func (h *InvoiceController) StartCheckout(c *fiber.Ctx) error {
	p, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	co, err := h.Checkout.StartCheckout(c.UserContext(), inv.InvoiceID, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "checkout created", co)
}

// POST /api/public/payments/midtrans/notification
// Selalu balas 200 untuk order yang tidak dikenal agar Midtrans berhenti retry.
func (h *InvoiceController) MidtransWebhook(c *fiber.Ctx) error {
	var n service.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	co, err := h.Checkout.HandleNotification(c.UserContext(), n)
	if err != nil {
		if helper.IsKind(err, helper.KindNotFound) {
			log.Warn().Str("order_id", n.OrderID).Msg("midtrans notification for unknown order")
			return c.JSON(fiber.Map{"status": "ignored", "reason": "order not found"})
		}
		return helper.JsonFromError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":             "ok",
		"order_id":           co.InvoiceCheckoutOrderID,
		"checkout_status":    co.InvoiceCheckoutStatus,
		"transaction_status": n.TransactionStatus,
	})
}
