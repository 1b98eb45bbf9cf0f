package route

import (
	"github.com/gofiber/fiber/v2"

	controller "condominio_backend/internals/features/users/auth/controller"
	"condominio_backend/internals/features/users/auth/service"
	rateLimiter "condominio_backend/internals/middlewares"
)

// AuthPublicRoutes: tanpa token.
func AuthPublicRoutes(r fiber.Router, svc *service.AuthService) {
	ctl := controller.NewAuthController(svc)

	auth := r.Group("/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	auth.Post("/login-google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)
}

// AuthRoutes: dipasang di belakang AuthMiddleware.
func AuthRoutes(r fiber.Router, svc *service.AuthService) {
	ctl := controller.NewAuthController(svc)

	auth := r.Group("/auth")
	auth.Post("/logout", ctl.Logout)
	auth.Get("/me", ctl.Me)
	auth.Post("/change-password", ctl.ChangePassword)
}
