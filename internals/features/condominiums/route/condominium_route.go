package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	condoController "condominio_backend/internals/features/condominiums/controller"
	condoService "condominio_backend/internals/features/condominiums/service"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

// CondominiumRoutes: condominium, blok, properti, dan resident.
// store / cache boleh nil (upload ditolak, dashboard tanpa cache).
func CondominiumRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock, store oss.ObjectStore, cache *redis.Client, maxUpload int64) {
	ctl := condoController.NewCondominiumController(condoService.NewCondominiumService(db, store, cache, clock, maxUpload))

	r.Get("/condominiums", ctl.List)
	r.Post("/condominiums", ctl.Create)

	condo := r.Group("/condominiums/:condominium_id")
	condo.Get("/", ctl.Get)
	condo.Patch("/", ctl.Update)
	condo.Delete("/", ctl.Delete)
	condo.Post("/logo", ctl.UploadLogo)
	condo.Get("/dashboard", ctl.Dashboard)

	// 🏢 Blocks
	condo.Get("/blocks", ctl.ListBlocks)
	condo.Post("/blocks", ctl.CreateBlock)
	r.Patch("/blocks/:id", ctl.UpdateBlock)
	r.Delete("/blocks/:id", ctl.DeleteBlock)

	// 🏠 Properties
	condo.Get("/properties", ctl.ListProperties)
	condo.Post("/properties", ctl.CreateProperty)
	prop := r.Group("/properties/:id")
	prop.Get("/", ctl.GetProperty)
	prop.Patch("/", ctl.UpdateProperty)
	prop.Delete("/", ctl.DeleteProperty)
	prop.Post("/photo", ctl.UploadPropertyPhoto)

	// 👥 Residents
	condo.Get("/residents", ctl.ListResidents)
	condo.Post("/residents", ctl.CreateResident)
	res := r.Group("/residents/:id")
	res.Get("/", ctl.GetResident)
	res.Patch("/", ctl.UpdateResident)
	res.Delete("/", ctl.DeleteResident)
	res.Post("/photo", ctl.UploadResidentPhoto)
	res.Post("/properties", ctl.LinkProperty)
	res.Delete("/properties/:property_id", ctl.UnlinkProperty)
}
