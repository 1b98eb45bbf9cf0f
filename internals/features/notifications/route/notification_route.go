package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notificationController "condominio_backend/internals/features/notifications/controller"
	notificationService "condominio_backend/internals/features/notifications/service"
	helper "condominio_backend/internals/helpers"
)

func NotificationRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock) {
	ctl := notificationController.NewNotificationController(notificationService.NewNotificationService(db, clock))

	r.Post("/condominiums/:condominium_id/notifications", ctl.Create)

	n := r.Group("/notifications")
	n.Get("/", ctl.ListMine)
	n.Get("/unread-count", ctl.UnreadCount)
	n.Post("/:id/read", ctl.MarkRead)
	n.Delete("/:id", ctl.Delete)
}
