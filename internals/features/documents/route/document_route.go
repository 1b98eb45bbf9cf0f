package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	documentController "condominio_backend/internals/features/documents/controller"
	documentService "condominio_backend/internals/features/documents/service"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

func DocumentRoutes(r fiber.Router, db *gorm.DB, clock helper.Clock, store oss.ObjectStore, maxUpload int64) {
	ctl := documentController.NewDocumentController(documentService.NewDocumentService(db, store, clock, maxUpload))

	byCondo := r.Group("/condominiums/:condominium_id/documents")
	byCondo.Get("/", ctl.List)
	byCondo.Post("/", ctl.Upload)

	doc := r.Group("/documents/:id")
	doc.Get("/", ctl.Get)
	doc.Patch("/", ctl.Update)
	doc.Delete("/", ctl.Delete)
	doc.Get("/versions", ctl.Versions)
	doc.Post("/versions", ctl.NewVersion)

	r.Post("/condominiums/:condominium_id/attachments", ctl.UploadAttachment)
	r.Get("/attachments/:entity_type/:entity_id", ctl.ListAttachments)
	r.Delete("/attachments/:id", ctl.DeleteAttachment)
}
