package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condominio_backend/internals/features/condominiums/dto"
	"condominio_backend/internals/features/condominiums/model"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

/* =======================================================
   PROPERTIES
======================================================= */

// GET /api/condominiums/:condominium_id/properties?block_id=&q=
func (h *CondominiumController) ListProperties(c *fiber.Ctx) error {
	_, condoID, err := member(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q := dto.ListPropertyQuery{CondominiumID: condoID, Search: strings.TrimSpace(c.Query("q"))}
	if q.BlockID, err = helper.QueryUUID(c, "block_id"); err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 500)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListProperties(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/properties
func (h *CondominiumController) CreateProperty(c *fiber.Ctx) error {
	_, condoID, err := admin(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreatePropertyRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateProperty(c.UserContext(), condoID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "property created", row)
}

// loadProperty: adminOnly=false cukup anggota condominium.
func (h *CondominiumController) loadProperty(c *fiber.Ctx, adminOnly bool) (*model.Property, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	row, err := h.Svc.FindProperty(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if adminOnly {
		err = helperAuth.EnsureAdmin(p, row.PropertyCondominiumID, featureCondominiums)
	} else {
		err = helperAuth.EnsureCondominiumAccess(p, row.PropertyCondominiumID)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// GET /api/properties/:id
func (h *CondominiumController) GetProperty(c *fiber.Ctx) error {
	row, err := h.loadProperty(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", row)
}

// PATCH /api/properties/:id
func (h *CondominiumController) UpdateProperty(c *fiber.Ctx) error {
	row, err := h.loadProperty(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdatePropertyRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateProperty(c.UserContext(), row.PropertyID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "property updated", out)
}

// DELETE /api/properties/:id
func (h *CondominiumController) DeleteProperty(c *fiber.Ctx) error {
	row, err := h.loadProperty(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteProperty(c.UserContext(), row.PropertyID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "property deleted", fiber.Map{"property_id": row.PropertyID})
}

// POST /api/properties/:id/photo (multipart: file)
func (h *CondominiumController) UploadPropertyPhoto(c *fiber.Ctx) error {
	row, err := h.loadProperty(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	out, err := h.Svc.UploadPropertyPhoto(c.UserContext(), row.PropertyID, fh)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "photo uploaded", out)
}

/* =======================================================
   RESIDENTS
======================================================= */

// GET /api/condominiums/:condominium_id/residents?property_id=&is_active=&q=
func (h *CondominiumController) ListResidents(c *fiber.Ctx) error {
	_, condoID, err := member(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q := dto.ListResidentQuery{CondominiumID: condoID, Search: strings.TrimSpace(c.Query("q"))}
	if q.PropertyID, err = helper.QueryUUID(c, "property_id"); err != nil {
		return helper.JsonFromError(c, err)
	}
	if q.IsActive, err = helper.QueryBool(c, "is_active"); err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 500)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListResidents(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/residents
func (h *CondominiumController) CreateResident(c *fiber.Ctx) error {
	_, condoID, err := admin(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateResidentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateResident(c.UserContext(), condoID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "resident created", row)
}

func (h *CondominiumController) loadResident(c *fiber.Ctx, adminOnly bool) (uuid.UUID, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, err
	}
	row, err := h.Svc.FindResident(c.UserContext(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if adminOnly {
		err = helperAuth.EnsureAdmin(p, row.ResidentCondominiumID, featureCondominiums)
	} else {
		err = helperAuth.EnsureCondominiumAccess(p, row.ResidentCondominiumID)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// GET /api/residents/:id
func (h *CondominiumController) GetResident(c *fiber.Ctx) error {
	id, err := h.loadResident(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.ResidentDetail(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/residents/:id
func (h *CondominiumController) UpdateResident(c *fiber.Ctx) error {
	id, err := h.loadResident(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateResidentRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateResident(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "resident updated", out)
}

// DELETE /api/residents/:id
func (h *CondominiumController) DeleteResident(c *fiber.Ctx) error {
	id, err := h.loadResident(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteResident(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "resident deleted", fiber.Map{"resident_id": id})
}

// POST /api/residents/:id/photo (multipart: file)
func (h *CondominiumController) UploadResidentPhoto(c *fiber.Ctx) error {
	id, err := h.loadResident(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	out, err := h.Svc.UploadResidentPhoto(c.UserContext(), id, fh)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "photo uploaded", out)
}

// POST /api/residents/:id/properties
func (h *CondominiumController) LinkProperty(c *fiber.Ctx) error {
	id, err := h.loadResident(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.LinkPropertyRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.LinkProperty(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "property linked", out)
}

// DELETE /api/residents/:id/properties/:property_id
func (h *CondominiumController) UnlinkProperty(c *fiber.Ctx) error {
	id, err := h.loadResident(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	propertyID, err := helper.ParseUUIDParam(c, "property_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.UnlinkProperty(c.UserContext(), id, propertyID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "property unlinked", fiber.Map{"resident_id": id, "property_id": propertyID})
}
