package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condominio_backend/internals/features/finance/invoices/dto"
	"condominio_backend/internals/features/finance/invoices/model"
	"condominio_backend/internals/features/finance/invoices/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureBilling = "billing"

type InvoiceController struct {
	Svc      *service.InvoiceService
	Checkout *service.CheckoutService
}

func NewInvoiceController(svc *service.InvoiceService, checkout *service.CheckoutService) *InvoiceController {
	return &InvoiceController{Svc: svc, Checkout: checkout}
}

// guardCondominium: principal + akses accounting pada condominium di path.
func guardCondominium(c *fiber.Ctx) (*helperAuth.Principal, uuid.UUID, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := helperAuth.EnsureAccounting(p, condoID, featureBilling); err != nil {
		return nil, uuid.Nil, err
	}
	return p, condoID, nil
}

// guardInvoice: load invoice lalu cek akses terhadap condominium pemiliknya.
func (h *InvoiceController) guardInvoice(c *fiber.Ctx) (*helperAuth.Principal, *model.Invoice, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	inv, err := h.Svc.FindInvoice(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if err := helperAuth.EnsureAccounting(p, inv.InvoiceCondominiumID, featureBilling); err != nil {
		return nil, nil, err
	}
	return p, inv, nil
}

func parseListQuery(c *fiber.Ctx, condoID uuid.UUID) (dto.ListInvoiceQuery, error) {
	q := dto.ListInvoiceQuery{CondominiumID: condoID}
	var err error
	if q.PropertyID, err = helper.QueryUUID(c, "property_id"); err != nil {
		return q, err
	}
	if q.Month, err = helper.QueryInt(c, "month"); err != nil {
		return q, err
	}
	if q.Year, err = helper.QueryInt(c, "year"); err != nil {
		return q, err
	}
	if q.IsActive, err = helper.QueryBool(c, "is_active"); err != nil {
		return q, err
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := model.InvoiceStatus(strings.ToLower(raw))
		if !st.Valid() {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		q.Status = &st
	}
	return q, nil
}

// GET /api/condominiums/:condominium_id/invoices
func (h *InvoiceController) List(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := parseListQuery(c, condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 200)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListInvoices(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// GET /api/condominiums/:condominium_id/invoices/export
func (h *InvoiceController) Export(c *fiber.Ctx) error {
	_, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := parseListQuery(c, condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	f, err := h.Svc.ExportInvoices(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.SendXLSX(c, fmt.Sprintf("invoices-%s.xlsx", condoID.String()[:8]), f)
}

// POST /api/condominiums/:condominium_id/invoices
func (h *InvoiceController) Create(c *fiber.Ctx) error {
	p, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateInvoiceRequest
	req.CondominiumID = condoID
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	// condominium selalu dari path
	req.CondominiumID = condoID

	inv, err := h.Svc.CreateInvoice(c.UserContext(), req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "invoice created", inv)
}

// POST /api/condominiums/:condominium_id/invoices/generate
func (h *InvoiceController) Generate(c *fiber.Ctx) error {
	p, condoID, err := guardCondominium(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.GenerateBillingRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := h.Svc.GenerateBilling(c.UserContext(), condoID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, res.Message, res)
}

// GET /api/invoices/:id
func (h *InvoiceController) Get(c *fiber.Ctx) error {
	_, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	detail, err := h.Svc.GetInvoice(c.UserContext(), inv.InvoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", detail)
}

// PATCH /api/invoices/:id
func (h *InvoiceController) Update(c *fiber.Ctx) error {
	_, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateInvoiceRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateInvoice(c.UserContext(), inv.InvoiceID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice updated", out)
}

// POST /api/invoices/:id/cancel
func (h *InvoiceController) Cancel(c *fiber.Ctx) error {
	_, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.CancelInvoice(c.UserContext(), inv.InvoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice cancelled", out)
}

// DELETE /api/invoices/:id
func (h *InvoiceController) Delete(c *fiber.Ctx) error {
	_, inv, err := h.guardInvoice(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteInvoice(c.UserContext(), inv.InvoiceID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "invoice deactivated", fiber.Map{"invoice_id": inv.InvoiceID})
}
