package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"condominio_backend/internals/constants"
	userController "condominio_backend/internals/features/users/user/controller"
	userService "condominio_backend/internals/features/users/user/service"
	"condominio_backend/internals/helpers/oss"
	authMiddleware "condominio_backend/internals/middlewares/auth"
)

func UserRoutes(r fiber.Router, db *gorm.DB, store oss.ObjectStore, maxUpload int64) {
	ctl := userController.NewUserController(userService.NewUserService(db, store, maxUpload))

	// profil milik sendiri: semua role
	profile := r.Group("/profile")
	profile.Get("/", ctl.Profile)
	profile.Put("/", ctl.UpdateProfile)
	profile.Post("/upload-photo", ctl.UploadProfilePhoto)

	users := r.Group("/users", authMiddleware.RequireRoles(constants.RoleAdmin, constants.RoleSuperAdmin))
	users.Get("/", ctl.List)
	users.Post("/", ctl.Create)
	users.Get("/roles/all", ctl.Roles)
	users.Get("/:id", ctl.Get)
	users.Patch("/:id", ctl.Update)
	users.Delete("/:id", ctl.Delete)
	users.Post("/:id/condominiums", ctl.AssignCondominium)
	users.Delete("/:id/condominiums/:condominium_id", ctl.UnassignCondominium)
}
