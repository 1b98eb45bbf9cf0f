package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "condominio_backend/internals/features/users/auth/route"
	userRoute "condominio_backend/internals/features/users/user/route"
)

// AuthPublicRoutes: /api/auth/login, /api/auth/login-google
func AuthPublicRoutes(api fiber.Router, d Deps) {
	authRoute.AuthPublicRoutes(api, d.Auth)
}

// UserRoutes: sesi milik sendiri + manajemen user oleh admin.
func UserRoutes(private fiber.Router, d Deps) {
	authRoute.AuthRoutes(private, d.Auth)
	userRoute.UserRoutes(private, d.DB, d.Store, d.Cfg.MaxUploadBytes)
}
