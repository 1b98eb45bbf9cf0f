package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condominio_backend/internals/features/condominiums/dto"
	"condominio_backend/internals/features/condominiums/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureCondominiums = "condominium management"

type CondominiumController struct {
	Svc *service.CondominiumService
}

func NewCondominiumController(svc *service.CondominiumService) *CondominiumController {
	return &CondominiumController{Svc: svc}
}

// member: principal + condominium_id dari path + cek keanggotaan.
func member(c *fiber.Ctx) (*helperAuth.Principal, uuid.UUID, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := helperAuth.EnsureCondominiumAccess(p, condoID); err != nil {
		return nil, uuid.Nil, err
	}
	return p, condoID, nil
}

func admin(c *fiber.Ctx) (*helperAuth.Principal, uuid.UUID, error) {
	p, condoID, err := member(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureCondominiums); err != nil {
		return nil, uuid.Nil, err
	}
	return p, condoID, nil
}

/* =======================================================
   CONDOMINIUM
======================================================= */

// GET /api/condominiums
func (h *CondominiumController) List(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListCondominiums(c.UserContext(), p.CondominiumIDs, p.IsSuperAdmin())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/condominiums (super admin)
func (h *CondominiumController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureSuperAdmin(p, featureCondominiums); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateCondominiumRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateCondominium(c.UserContext(), req, p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "condominium created", row)
}

// GET /api/condominiums/:condominium_id
func (h *CondominiumController) Get(c *fiber.Ctx) error {
	_, condoID, err := member(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.GetCondominium(c.UserContext(), condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", row)
}

// PATCH /api/condominiums/:condominium_id
func (h *CondominiumController) Update(c *fiber.Ctx) error {
	_, condoID, err := admin(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateCondominiumRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.UpdateCondominium(c.UserContext(), condoID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "condominium updated", row)
}

// DELETE /api/condominiums/:condominium_id (super admin, soft delete)
func (h *CondominiumController) Delete(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureSuperAdmin(p, featureCondominiums); err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteCondominium(c.UserContext(), condoID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "condominium deleted", fiber.Map{"condominium_id": condoID})
}

// POST /api/condominiums/:condominium_id/logo (multipart: file)
func (h *CondominiumController) UploadLogo(c *fiber.Ctx) error {
	_, condoID, err := admin(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	row, err := h.Svc.UploadLogo(c.UserContext(), condoID, fh)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "logo uploaded", row)
}

// GET /api/condominiums/:condominium_id/dashboard
func (h *CondominiumController) Dashboard(c *fiber.Ctx) error {
	_, condoID, err := member(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.Dashboard(c.UserContext(), condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

/* =======================================================
   BLOCKS
======================================================= */

// GET /api/condominiums/:condominium_id/blocks
func (h *CondominiumController) ListBlocks(c *fiber.Ctx) error {
	_, condoID, err := member(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListBlocks(c.UserContext(), condoID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/condominiums/:condominium_id/blocks
func (h *CondominiumController) CreateBlock(c *fiber.Ctx) error {
	_, condoID, err := admin(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.BlockRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateBlock(c.UserContext(), condoID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "block created", row)
}

func (h *CondominiumController) adminOfBlock(c *fiber.Ctx) (uuid.UUID, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, err
	}
	row, err := h.Svc.FindBlock(c.UserContext(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := helperAuth.EnsureAdmin(p, row.BlockCondominiumID, featureCondominiums); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// PATCH /api/blocks/:id
func (h *CondominiumController) UpdateBlock(c *fiber.Ctx) error {
	id, err := h.adminOfBlock(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateBlockRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.UpdateBlock(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "block updated", row)
}

// DELETE /api/blocks/:id
func (h *CondominiumController) DeleteBlock(c *fiber.Ctx) error {
	id, err := h.adminOfBlock(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteBlock(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "block deleted", fiber.Map{"block_id": id})
}
