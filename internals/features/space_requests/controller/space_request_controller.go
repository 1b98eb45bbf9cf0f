package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/features/space_requests/dto"
	"condominio_backend/internals/features/space_requests/model"
	"condominio_backend/internals/features/space_requests/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureSpaceRequests = "space request review"

type SpaceRequestController struct {
	Svc *service.SpaceRequestService
}

func NewSpaceRequestController(svc *service.SpaceRequestService) *SpaceRequestController {
	return &SpaceRequestController{Svc: svc}
}

func requester(p *helperAuth.Principal) service.Requester {
	return service.Requester{UserID: p.UserID, IsAdmin: p.IsAdmin()}
}

func (h *SpaceRequestController) load(c *fiber.Ctx, adminOnly bool) (*helperAuth.Principal, *model.SpaceRequest, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	row, err := h.Svc.FindSpaceRequest(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if adminOnly {
		err = helperAuth.EnsureAdmin(p, row.SpaceRequestCondominiumID, featureSpaceRequests)
	} else {
		err = helperAuth.EnsureCondominiumAccess(p, row.SpaceRequestCondominiumID)
	}
	if err != nil {
		return nil, nil, err
	}
	return p, row, nil
}

// GET /api/condominiums/:condominium_id/space-requests?status=&space=
func (h *SpaceRequestController) List(c *fiber.Ctx) error {
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
	q := dto.ListSpaceRequestQuery{CondominiumID: condoID, SpaceName: c.Query("space")}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		q.Status = &st
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListSpaceRequests(c.UserContext(), q, requester(p))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/space-requests
func (h *SpaceRequestController) Create(c *fiber.Ctx) error {
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
	var req dto.CreateSpaceRequestRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateSpaceRequest(c.UserContext(), condoID, req, requester(p))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "space request created", row)
}

// GET /api/space-requests/:id
func (h *SpaceRequestController) Get(c *fiber.Ctx) error {
	p, row, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.GetSpaceRequest(c.UserContext(), row.SpaceRequestID, requester(p))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PUT /api/space-requests/:id/approve
func (h *SpaceRequestController) Approve(c *fiber.Ctx) error {
	p, row, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.ApproveSpaceRequest(c.UserContext(), row.SpaceRequestID, p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "space request approved", out)
}

// PUT /api/space-requests/:id/reject
func (h *SpaceRequestController) Reject(c *fiber.Ctx) error {
	p, row, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.RejectSpaceRequestRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.RejectSpaceRequest(c.UserContext(), row.SpaceRequestID, req.RejectionReason, p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "space request rejected", out)
}

// DELETE /api/space-requests/:id
func (h *SpaceRequestController) Delete(c *fiber.Ctx) error {
	p, row, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteSpaceRequest(c.UserContext(), row.SpaceRequestID, requester(p)); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "space request deleted", fiber.Map{"space_request_id": row.SpaceRequestID})
}
