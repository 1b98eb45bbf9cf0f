package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assemblyController "condominio_backend/internals/features/assemblies/controller"
	assemblyService "condominio_backend/internals/features/assemblies/service"
	helper "condominio_backend/internals/helpers"
)

// AssemblyRoutes dipasang pada group /api yang sudah melewati AuthJWT.
// Role dicek per handler (admin / super_admin / member).
func AssemblyRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock) {
	ctl := assemblyController.NewAssemblyController(assemblyService.NewAssemblyService(db, clock))

	byCondo := r.Group("/condominiums/:condominium_id/assemblies")
	byCondo.Get("/", ctl.List)
	byCondo.Post("/", ctl.Create)

	asm := r.Group("/assemblies")
	asm.Get("/:id", ctl.Detail)
	asm.Patch("/:id", ctl.Update)
	asm.Delete("/:id", ctl.Delete)
	asm.Put("/:id/minutes", ctl.UpdateMinutes)

	// attendance
	asm.Get("/:id/attendance", ctl.ListAttendance)
	asm.Put("/:id/attendance", ctl.RecordAttendance)

	// votes
	asm.Get("/:id/votes", ctl.ListVotes)
	asm.Post("/:id/votes", ctl.CreateVote)

	votes := r.Group("/votes")
	votes.Patch("/:vote_id", ctl.UpdateVote)
	votes.Post("/:vote_id/cast", ctl.CastVote)
}
