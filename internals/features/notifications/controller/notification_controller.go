package controller

import (
	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/features/notifications/dto"
	"condominio_backend/internals/features/notifications/model"
	"condominio_backend/internals/features/notifications/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureNotifications = "notifications"

type NotificationController struct {
	Svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Svc: svc}
}

// POST /api/condominiums/:condominium_id/notifications
func (h *NotificationController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, condoID, featureNotifications); err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateNotificationRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	row, err := h.Svc.Create(c.UserContext(), condoID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "notification created", row)
}

// GET /api/notifications?unread=true
func (h *NotificationController) ListMine(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	unread, err := helper.QueryBool(c, "unread")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := h.Svc.ListMine(c.UserContext(), dto.ListMineQuery{
		UserID:         p.UserID,
		CondominiumIDs: p.CondominiumIDs,
		UnreadOnly:     unread != nil && *unread,
		Offset:         paging.Offset,
		Limit:          paging.Limit,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// GET /api/notifications/unread-count
func (h *NotificationController) UnreadCount(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	n, err := h.Svc.UnreadCount(c.UserContext(), p.UserID, p.CondominiumIDs)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread": n})
}

func (h *NotificationController) load(c *fiber.Ctx) (*helperAuth.Principal, *model.Notification, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	n, err := h.Svc.Find(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	return p, n, nil
}

// POST /api/notifications/:id/read
func (h *NotificationController) MarkRead(c *fiber.Ctx) error {
	p, n, err := h.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	// notifikasi milik orang lain dilaporkan sebagai not found
	if !service.VisibleTo(n, p.UserID, p.HasCondominiumAccess(n.NotificationCondominiumID)) {
		return helper.JsonFromError(c, helper.NotFound("notification not found"))
	}
	if err := h.Svc.MarkRead(c.UserContext(), n.NotificationID, p.UserID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "notification marked as read", fiber.Map{"notification_id": n.NotificationID})
}

// DELETE /api/notifications/:id (admin condominium)
func (h *NotificationController) Delete(c *fiber.Ctx) error {
	p, n, err := h.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureAdmin(p, n.NotificationCondominiumID, featureNotifications); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.Svc.Delete(c.UserContext(), n.NotificationID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "notification deleted", fiber.Map{"notification_id": n.NotificationID})
}
