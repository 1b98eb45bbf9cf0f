package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/features/documents/dto"
	"condominio_backend/internals/features/documents/model"
	"condominio_backend/internals/features/documents/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const (
	featureDocuments   = "documents"
	featureAttachments = "attachments"
)

type DocumentController struct {
	Svc *service.DocumentService
}

func NewDocumentController(svc *service.DocumentService) *DocumentController {
	return &DocumentController{Svc: svc}
}

func (h *DocumentController) load(c *fiber.Ctx, adminOnly bool) (*helperAuth.Principal, *model.Document, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	doc, err := h.Svc.FindDocument(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if adminOnly {
		err = helperAuth.EnsureAdmin(p, doc.DocumentCondominiumID, featureDocuments)
	} else {
		err = helperAuth.EnsureCondominiumAccess(p, doc.DocumentCondominiumID)
	}
	if err != nil {
		return nil, nil, err
	}
	return p, doc, nil
}

// GET /api/condominiums/:condominium_id/documents?category=&q=
func (h *DocumentController) List(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureCondominiumAccess(p, condoID); err != nil {
		return helper.JsonFromError(c, err)
	}
	q := dto.ListDocumentQuery{CondominiumID: condoID, Search: c.Query("q")}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q.Category = &cat
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListDocuments(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/documents (multipart: file, title, description, category)
func (h *DocumentController) Upload(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureDocuments); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UploadDocumentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	row, err := h.Svc.Upload(c.UserContext(), condoID, req, fh, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "document uploaded", row)
}

// GET /api/documents/:id → metadata + presigned URL
func (h *DocumentController) Get(c *fiber.Ctx) error {
	_, doc, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.GetDocument(c.UserContext(), doc.DocumentID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/documents/:id/versions
func (h *DocumentController) Versions(c *fiber.Ctx) error {
	_, doc, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.Versions(c.UserContext(), doc.DocumentID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// PATCH /api/documents/:id
func (h *DocumentController) Update(c *fiber.Ctx) error {
	_, doc, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateDocumentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateDocument(c.UserContext(), doc.DocumentID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "document updated", out)
}

// POST /api/documents/:id/versions (multipart: file)
func (h *DocumentController) NewVersion(c *fiber.Ctx) error {
	p, doc, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	out, err := h.Svc.NewVersion(c.UserContext(), doc.DocumentID, fh, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "new version uploaded", out)
}

// DELETE /api/documents/:id
func (h *DocumentController) Delete(c *fiber.Ctx) error {
	_, doc, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteDocument(c.UserContext(), doc.DocumentID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "document deleted", fiber.Map{"document_id": doc.DocumentID})
}

/* ===================== Attachments ===================== */

// POST /api/condominiums/:condominium_id/attachments (multipart: file, entity_type, entity_id, title, description)
func (h *DocumentController) UploadAttachment(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureAttachments); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UploadAttachmentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	row, err := h.Svc.UploadAttachment(c.UserContext(), condoID, req, fh, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "attachment uploaded", row)
}

// GET /api/attachments/:entity_type/:entity_id
func (h *DocumentController) ListAttachments(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	entityType := strings.ToLower(strings.TrimSpace(c.Params("entity_type")))
	entityID, err := helper.ParseUUIDParam(c, "entity_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := h.Svc.EntityCondominium(c.UserContext(), entityType, entityID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureCondominiumAccess(p, condoID); err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListAttachments(c.UserContext(), entityType, entityID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// DELETE /api/attachments/:id
func (h *DocumentController) DeleteAttachment(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.FindAttachment(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, row.DocumentAttachmentCondominiumID, featureAttachments); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteAttachment(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "attachment deleted", fiber.Map{"document_attachment_id": id})
}
