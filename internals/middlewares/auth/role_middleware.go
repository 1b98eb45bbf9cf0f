package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/constants"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

// RequireRoles: lolos bila Principal punya salah satu role. Pasang setelah AuthMiddleware.
func RequireRoles(roles ...constants.Role) fiber.Handler {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	message := "forbidden: requires one of " + strings.Join(names, ", ")

	return func(c *fiber.Ctx) error {
		p, err := helperAuth.FromCtx(c)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		if !p.HasRole(roles...) {
			return helper.JsonError(c, fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}
