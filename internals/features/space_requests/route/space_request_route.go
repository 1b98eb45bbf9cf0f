package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	spaceRequestController "condominio_backend/internals/features/space_requests/controller"
	spaceRequestService "condominio_backend/internals/features/space_requests/service"
	helper "condominio_backend/internals/helpers"
)

func SpaceRequestRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock) {
	ctl := spaceRequestController.NewSpaceRequestController(spaceRequestService.NewSpaceRequestService(db, clock))

	byCondo := r.Group("/condominiums/:condominium_id/space-requests")
	byCondo.Get("/", ctl.List)
	byCondo.Post("/", ctl.Create)

	sr := r.Group("/space-requests/:id")
	sr.Get("/", ctl.Get)
	sr.Put("/approve", ctl.Approve)
	sr.Put("/reject", ctl.Reject)
	sr.Delete("/", ctl.Delete)
}
