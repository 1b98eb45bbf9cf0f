package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	meetingController "condominio_backend/internals/features/meetings/controller"
	meetingService "condominio_backend/internals/features/meetings/service"
	helper "condominio_backend/internals/helpers"
)

func MeetingRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock) {
	ctl := meetingController.NewMeetingController(meetingService.NewMeetingService(db, clock))

	byCondo := r.Group("/condominiums/:condominium_id/meetings")
	byCondo.Get("/", ctl.List)
	byCondo.Post("/", ctl.Create)

	m := r.Group("/meetings/:id")
	m.Get("/", ctl.Detail)
	m.Patch("/", ctl.Update)
	m.Delete("/", ctl.Delete)
	m.Get("/attendance", ctl.ListAttendance)
	m.Put("/attendance", ctl.RecordAttendance)
}
