// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	authService "condominio_backend/internals/features/users/auth/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

// AuthMiddleware memverifikasi Bearer token (atau cookie access_token), menolak token
// yang sudah logout, lalu memasang Principal ke Locals.
func AuthMiddleware(svc *authService.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helperAuth.BearerToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - no token provided")
		}

		p, err := svc.Authenticate(c.UserContext(), raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("auth rejected")
			return helper.JsonFromError(c, err)
		}

		c.Locals(helperAuth.LocPrincipal, p)
		c.Locals(helperAuth.LocUserID, p.UserID.String())
		c.Locals(helperAuth.LocAccessToken, raw)
		return c.Next()
	}
}
