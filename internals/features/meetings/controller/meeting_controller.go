package controller

import (
	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/features/meetings/dto"
	"condominio_backend/internals/features/meetings/model"
	"condominio_backend/internals/features/meetings/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureMeetings = "meetings"

type MeetingController struct {
	Svc *service.MeetingService
}

func NewMeetingController(svc *service.MeetingService) *MeetingController {
	return &MeetingController{Svc: svc}
}

func (h *MeetingController) load(c *fiber.Ctx, adminOnly bool) (*helperAuth.Principal, *model.Meeting, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	m, err := h.Svc.FindMeeting(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if adminOnly {
		err = helperAuth.EnsureAdmin(p, m.MeetingCondominiumID, featureMeetings)
	} else {
		err = helperAuth.EnsureCondominiumAccess(p, m.MeetingCondominiumID)
	}
	if err != nil {
		return nil, nil, err
	}
	return p, m, nil
}

// GET /api/condominiums/:condominium_id/meetings?is_completed=&from=&to=
func (h *MeetingController) List(c *fiber.Ctx) error {
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
	q := dto.ListMeetingQuery{CondominiumID: condoID}
	if q.IsCompleted, err = helper.QueryBool(c, "is_completed"); err != nil {
		return helper.JsonFromError(c, err)
	}
	if q.From, err = helper.QueryDate(c, "from"); err != nil {
		return helper.JsonFromError(c, err)
	}
	if q.To, err = helper.QueryDate(c, "to"); err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q.Offset, q.Limit = paging.Offset, paging.Limit

	rows, total, err := h.Svc.ListMeetings(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/condominiums/:condominium_id/meetings
func (h *MeetingController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureMeetings); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateMeetingRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.CreateMeeting(c.UserContext(), condoID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "meeting created", row)
}

// GET /api/meetings/:id
func (h *MeetingController) Detail(c *fiber.Ctx) error {
	_, m, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.MeetingDetail(c.UserContext(), m.MeetingID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/meetings/:id
func (h *MeetingController) Update(c *fiber.Ctx) error {
	_, m, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateMeetingRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.UpdateMeeting(c.UserContext(), m.MeetingID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "meeting updated", out)
}

// DELETE /api/meetings/:id
func (h *MeetingController) Delete(c *fiber.Ctx) error {
	_, m, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.DeleteMeeting(c.UserContext(), m.MeetingID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "meeting deleted", fiber.Map{"meeting_id": m.MeetingID})
}

// PUT /api/meetings/:id/attendance
func (h *MeetingController) RecordAttendance(c *fiber.Ctx) error {
	_, m, err := h.load(c, true)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.MeetingAttendanceRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := h.Svc.RecordAttendance(c.UserContext(), m.MeetingID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "attendance recorded", out)
}

// GET /api/meetings/:id/attendance
func (h *MeetingController) ListAttendance(c *fiber.Ctx) error {
	_, m, err := h.load(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := h.Svc.ListAttendance(c.UserContext(), m.MeetingID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}
