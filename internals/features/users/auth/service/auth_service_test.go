package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"condominio_backend/internals/constants"
	"condominio_backend/internals/features/users/auth/dto"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
	"condominio_backend/internals/testutil"
)

type fakeGoogle struct {
	identity *GoogleIdentity
}

func (f fakeGoogle) Verify(string) (*GoogleIdentity, error) {
	if f.identity == nil {
		return nil, errors.New("bad token")
	}
	return f.identity, nil
}

var testNow = time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, email, password string, active bool, roles ...string) userModel.UserModel {
	t.Helper()
	hash, err := authHelper.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u := userModel.UserModel{FullName: "Test " + email, Email: email, Password: hash, IsActive: active}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	if err := authRepo.ReplaceUserRoles(context.Background(), db, u.ID, roles, nil); err != nil {
		t.Fatal(err)
	}
	return u
}

func newTestAuth(t *testing.T, db *gorm.DB, google GoogleVerifier) *AuthService {
	t.Helper()
	clock := helper.FixedClock{T: testNow}
	return NewAuthService(db, NewTokenIssuer("test-secret", time.Hour, clock), helperAuth.NewDBBlacklist(db, "test-secret", clock), google)
}

func TestLoginIssuesTokenWithRolesAndMemberships(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newTestAuth(t, db, nil)
	ctx := context.Background()

	condo := testutil.CreateCondominium(t, db, "Torre Norte")
	u := seedUser(t, db, "admin@condo.test", "clave1234", true, "admin")
	if err := authRepo.AddMembership(ctx, db, u.ID, condo.CondominiumID); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Login(ctx, dto.LoginRequest{Email: "  ADMIN@condo.test ", Password: "clave1234"})
	if err != nil {
		t.Fatal(err)
	}
	if res.TokenType != "Bearer" || res.AccessToken == "" {
		t.Fatalf("unexpected response %+v", res)
	}
	if !res.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("expires_at = %v", res.ExpiresAt)
	}
	if len(res.Me.Condominiums) != 1 || res.Me.Condominiums[0].CondominiumName != "Torre Norte" {
		t.Fatalf("memberships = %+v", res.Me.Condominiums)
	}

	claims, err := svc.Tokens.Parse(res.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != u.ID.String() || len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if len(claims.CondominiumIDs) != 1 || claims.CondominiumIDs[0] != condo.CondominiumID.String() {
		t.Fatalf("condominium ids = %v", claims.CondominiumIDs)
	}

	p, err := svc.Authenticate(ctx, res.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasRole(constants.RoleAdmin) || !p.HasCondominiumAccess(condo.CondominiumID) {
		t.Fatalf("principal = %+v", p)
	}
}

func TestLoginFailures(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newTestAuth(t, db, nil)
	ctx := context.Background()
	seedUser(t, db, "vecino@condo.test", "clave1234", true, "user")
	seedUser(t, db, "baja@condo.test", "clave1234", false, "user")

	tests := []struct {
		name string
		req  dto.LoginRequest
		kind helper.ErrorKind
	}{
		{"wrong password", dto.LoginRequest{Email: "vecino@condo.test", Password: "otra1234"}, helper.KindUnauthorized},
		{"unknown email", dto.LoginRequest{Email: "nadie@condo.test", Password: "clave1234"}, helper.KindUnauthorized},
		{"inactive", dto.LoginRequest{Email: "baja@condo.test", Password: "clave1234"}, helper.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			if !helper.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newTestAuth(t, db, nil)
	ctx := context.Background()
	seedUser(t, db, "vecino@condo.test", "clave1234", true, "user")

	res, err := svc.Login(ctx, dto.LoginRequest{Email: "vecino@condo.test", Password: "clave1234"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, res.AccessToken); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
	if err := svc.Logout(ctx, res.AccessToken); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, res.AccessToken); !helper.IsKind(err, helper.KindUnauthorized) {
		t.Fatalf("blacklisted token err = %v", err)
	}
}

func TestAuthenticateRejectsDisabledAndExpired(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newTestAuth(t, db, nil)
	ctx := context.Background()
	u := seedUser(t, db, "vecino@condo.test", "clave1234", true, "user")

	res, err := svc.Login(ctx, dto.LoginRequest{Email: "vecino@condo.test", Password: "clave1234"})
	if err != nil {
		t.Fatal(err)
	}

	expired := NewTokenIssuer("test-secret", time.Hour, helper.FixedClock{T: testNow.Add(2 * time.Hour)})
	if _, err := expired.Parse(res.AccessToken); !helper.IsKind(err, helper.KindUnauthorized) {
		t.Fatalf("expired token err = %v", err)
	}
	other := NewTokenIssuer("other-secret", time.Hour, helper.FixedClock{T: testNow})
	if _, err := other.Parse(res.AccessToken); !helper.IsKind(err, helper.KindUnauthorized) {
		t.Fatalf("foreign signature err = %v", err)
	}

	if err := db.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, res.AccessToken); !helper.IsKind(err, helper.KindForbidden) {
		t.Fatalf("disabled user err = %v", err)
	}
}

func TestLoginGoogleExistingUsersOnly(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "vecina@condo.test", "clave1234", true, "user")

	svc := newTestAuth(t, db, fakeGoogle{identity: &GoogleIdentity{Subject: "g-123", Email: "Vecina@condo.test", Name: "Vecina"}})
	res, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "ok"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Me.User.ID != u.ID {
		t.Fatalf("logged in as %v, want %v", res.Me.User.ID, u.ID)
	}
	linked, _ := authRepo.FindUserByGoogleID(ctx, db, "g-123")
	if linked == nil || linked.ID != u.ID {
		t.Fatal("google id should be linked on first login")
	}

	stranger := newTestAuth(t, db, fakeGoogle{identity: &GoogleIdentity{Subject: "g-999", Email: "nuevo@condo.test"}})
	if _, err := stranger.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "ok"}); !helper.IsKind(err, helper.KindUnauthorized) {
		t.Fatalf("unregistered google user err = %v", err)
	}

	bad := newTestAuth(t, db, fakeGoogle{})
	if _, err := bad.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "bad"}); !helper.IsKind(err, helper.KindUnauthorized) {
		t.Fatalf("bad token err = %v", err)
	}

	disabled := newTestAuth(t, db, nil)
	if _, err := disabled.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "ok"}); !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("unconfigured google err = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newTestAuth(t, db, nil)
	ctx := context.Background()
	u := seedUser(t, db, "vecino@condo.test", "clave1234", true, "user")

	tests := []struct {
		name string
		req  dto.ChangePasswordRequest
	}{
		{"wrong current", dto.ChangePasswordRequest{CurrentPassword: "mala1234", NewPassword: "nueva1234"}},
		{"same password", dto.ChangePasswordRequest{CurrentPassword: "clave1234", NewPassword: "clave1234"}},
		{"weak", dto.ChangePasswordRequest{CurrentPassword: "clave1234", NewPassword: "soloLetras"}},
	}
	for _, tt := range tests {
		if err := svc.ChangePassword(ctx, u.ID, tt.req); !helper.IsKind(err, helper.KindValidation) {
			t.Errorf("%s: err = %v", tt.name, err)
		}
	}

	if err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "clave1234", NewPassword: "nueva1234"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "vecino@condo.test", Password: "nueva1234"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := svc.ChangePassword(ctx, uuid.New(), dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "nueva1234"}); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}
