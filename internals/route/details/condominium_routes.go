package details

import (
	"github.com/gofiber/fiber/v2"

	assemblyRoute "condominio_backend/internals/features/assemblies/route"
	condominiumRoute "condominio_backend/internals/features/condominiums/route"
	documentRoute "condominio_backend/internals/features/documents/route"
	meetingRoute "condominio_backend/internals/features/meetings/route"
	notificationRoute "condominio_backend/internals/features/notifications/route"
	spaceRequestRoute "condominio_backend/internals/features/space_requests/route"
)

func CondominiumRoutes(private fiber.Router, d Deps) {
	condominiumRoute.CondominiumRoutes(private, d.DB, d.Clock, d.Store, d.Redis, d.Cfg.MaxUploadBytes)
	assemblyRoute.AssemblyRoutes(private, d.DB, d.Clock)
	meetingRoute.MeetingRoutes(private, d.DB, d.Clock)
	documentRoute.DocumentRoutes(private, d.DB, d.Clock, d.Store, d.Cfg.MaxUploadBytes)
	notificationRoute.NotificationRoutes(private, d.DB, d.Clock)
	spaceRequestRoute.SpaceRequestRoutes(private, d.DB, d.Clock)
}
