package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	rateLimiter "condominio_backend/internals/middlewares"
	authMiddleware "condominio_backend/internals/middlewares/auth"
	routeDetails "condominio_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes: route publik didaftarkan lebih dulu supaya tidak melewati AuthMiddleware.
func SetupRoutes(app *fiber.App, d routeDetails.Deps) {
	startTime = time.Now()

	BaseRoutes(app, d)

	api := app.Group("/api", rateLimiter.GlobalRateLimiter())

	// ===================== PUBLIC =====================
	log.Info().Msg("setting up public routes")
	routeDetails.AuthPublicRoutes(api, d)
	routeDetails.FinancePublicRoutes(api, d)

	// ===================== PRIVATE (JWT) =====================
	log.Info().Msg("setting up private routes")
	private := api.Group("", authMiddleware.AuthMiddleware(d.Auth))
	routeDetails.UserRoutes(private, d)
	routeDetails.CondominiumRoutes(private, d)
	routeDetails.FinanceRoutes(private, d)
}
