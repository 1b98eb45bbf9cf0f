package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"condominio_backend/internals/constants"
	authDto "condominio_backend/internals/features/users/auth/dto"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	authService "condominio_backend/internals/features/users/auth/service"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
	"condominio_backend/internals/testutil"
)

func TestAuthMiddlewareAndRoles(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	clock := helper.FixedClock{T: time.Now().UTC()}
	svc := authService.NewAuthService(db,
		authService.NewTokenIssuer("mw-secret", time.Hour, clock),
		helperAuth.NewDBBlacklist(db, "mw-secret", clock),
		nil,
	)

	hash, _ := authHelper.HashPassword("clave1234")
	u := userModel.UserModel{FullName: "Vecino", Email: "vecino@condo.test", Password: hash, IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	if err := authRepo.ReplaceUserRoles(ctx, db, u.ID, []string{"user"}, nil); err != nil {
		t.Fatal(err)
	}
	login, err := svc.Login(ctx, authDto.LoginRequest{Email: u.Email, Password: "clave1234"})
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	api := app.Group("/api", AuthMiddleware(svc))
	api.Get("/whoami", func(c *fiber.Ctx) error {
		p, err := helperAuth.FromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(p.Email)
	})
	api.Get("/admin-only", RequireRoles(constants.RoleAdmin, constants.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/api/whoami", "", fiber.StatusUnauthorized},
		{"garbage token", "/api/whoami", "Bearer nope", fiber.StatusUnauthorized},
		{"valid token", "/api/whoami", "Bearer " + login.AccessToken, fiber.StatusOK},
		{"lowercase scheme", "/api/whoami", "bearer " + login.AccessToken, fiber.StatusOK},
		{"missing role", "/api/admin-only", "Bearer " + login.AccessToken, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(fiber.MethodGet, "/api/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.AccessToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("after logout status = %d", resp.StatusCode)
	}
}
