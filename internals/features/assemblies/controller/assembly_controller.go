package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/features/assemblies/dto"
	"condominio_backend/internals/features/assemblies/model"
	"condominio_backend/internals/features/assemblies/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureAssemblies = "assemblies"

type AssemblyController struct {
	Svc *service.AssemblyService
}

func NewAssemblyController(svc *service.AssemblyService) *AssemblyController {
	return &AssemblyController{Svc: svc}
}

// loadAssembly: principal + assembly dari :id + cek keanggotaan condominium.
func (h *AssemblyController) loadAssembly(c *fiber.Ctx) (*helperAuth.Principal, *model.Assembly, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	a, err := h.Svc.FindAssembly(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if err := helperAuth.EnsureCondominiumAccess(p, a.AssemblyCondominiumID); err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

// GET /api/condominiums/:condominium_id/assemblies?status=
func (h *AssemblyController) List(c *fiber.Ctx) error {
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

	q := dto.ListAssemblyQuery{CondominiumID: condoID}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := model.AssemblyStatus(strings.ToLower(raw))
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		q.Status = &st
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListAssemblies(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/assemblies
func (h *AssemblyController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateAssemblyRequest
	req.CondominiumID = condoID
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	req.CondominiumID = condoID

	a, err := h.Svc.CreateAssembly(c.UserContext(), req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "assembly created", a)
}

// GET /api/assemblies/:id (quorum dihitung ulang & disimpan)
func (h *AssemblyController) Detail(c *fiber.Ctx) error {
	_, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	detail, err := h.Svc.GetAssemblyDetail(c.UserContext(), a.AssemblyID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", detail)
}

// PATCH /api/assemblies/:id
func (h *AssemblyController) Update(c *fiber.Ctx) error {
	p, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, a.AssemblyCondominiumID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateAssemblyRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateAssembly(c.UserContext(), a.AssemblyID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "assembly updated", out)
}

// PUT /api/assemblies/:id/minutes
func (h *AssemblyController) UpdateMinutes(c *fiber.Ctx) error {
	p, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, a.AssemblyCondominiumID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateMinutesRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateMinutes(c.UserContext(), a.AssemblyID, req.Minutes)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "minutes updated", out)
}

// DELETE /api/assemblies/:id (super admin saja)
func (h *AssemblyController) Delete(c *fiber.Ctx) error {
	p, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureSuperAdmin(p, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteAssembly(c.UserContext(), a.AssemblyID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "assembly deleted", fiber.Map{"assembly_id": a.AssemblyID})
}

/* =======================================================
   ATTENDANCE
======================================================= */

// GET /api/assemblies/:id/attendance
func (h *AssemblyController) ListAttendance(c *fiber.Ctx) error {
	_, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListAttendance(c.UserContext(), a.AssemblyID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// PUT /api/assemblies/:id/attendance (upsert per resident)
func (h *AssemblyController) RecordAttendance(c *fiber.Ctx) error {
	p, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, a.AssemblyCondominiumID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AttendanceRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.RecordAttendance(c.UserContext(), a.AssemblyID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "attendance recorded", out)
}

/* =======================================================
   VOTES
======================================================= */

// GET /api/assemblies/:id/votes
func (h *AssemblyController) ListVotes(c *fiber.Ctx) error {
	_, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListVotes(c.UserContext(), a.AssemblyID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/assemblies/:id/votes
func (h *AssemblyController) CreateVote(c *fiber.Ctx) error {
	p, a, err := h.loadAssembly(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, a.AssemblyCondominiumID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateVoteRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.CreateVote(c.UserContext(), a.AssemblyID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "vote created", out)
}

// loadVote: vote dari :vote_id + assembly induknya, lalu cek keanggotaan.
func (h *AssemblyController) loadVote(c *fiber.Ctx) (*helperAuth.Principal, *model.Vote, *model.Assembly, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "vote_id")
	if err != nil {
		return nil, nil, nil, err
	}
	v, a, err := h.Svc.FindVote(c.UserContext(), id)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := helperAuth.EnsureCondominiumAccess(p, a.AssemblyCondominiumID); err != nil {
		return nil, nil, nil, err
	}
	return p, v, a, nil
}

// PATCH /api/votes/:vote_id
func (h *AssemblyController) UpdateVote(c *fiber.Ctx) error {
	p, v, a, err := h.loadVote(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, a.AssemblyCondominiumID, featureAssemblies); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateVoteRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateVote(c.UserContext(), v.VoteID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "vote updated", out)
}

// POST /api/votes/:vote_id/cast
// Admin boleh mencatat suara resident mana pun; selain itu hanya resident milik akun sendiri.
func (h *AssemblyController) CastVote(c *fiber.Ctx) error {
	p, v, _, err := h.loadVote(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CastVoteRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if !p.IsAdmin() {
		owned, err := h.Svc.ResidentOwnedBy(c.UserContext(), req.ResidentID, p.UserID)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		if !owned {
			return helper.JsonFromError(c, helper.Forbidden("you can only vote as your own resident record"))
		}
	}
	out, err := h.Svc.CastVote(c.UserContext(), v.VoteID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "vote cast", out)
}
