package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"condominio_backend/internals/features/users/user/dto"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

func TestCreateUserWithRolesAndMemberships(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db, nil, 0)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")

	u, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		FullName:       " Ana Tesorera ",
		Email:          "Ana@Condo.test",
		Password:       "clave1234",
		Roles:          []string{"accountant", "accountant"},
		CondominiumIDs: []uuid.UUID{condo.CondominiumID, condo.CondominiumID},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "ana@condo.test" || u.FullName != "Ana Tesorera" || !u.IsActive {
		t.Fatalf("user = %+v", u.UserModel)
	}
	if len(u.Roles) != 1 || u.Roles[0] != "accountant" {
		t.Fatalf("roles = %v", u.Roles)
	}
	if len(u.CondominiumIDs) != 1 || u.CondominiumIDs[0] != condo.CondominiumID {
		t.Fatalf("memberships = %v", u.CondominiumIDs)
	}
	if u.Password == "clave1234" {
		t.Fatal("password stored in clear")
	}

	defaulted, err := svc.CreateUser(ctx, dto.CreateUserRequest{FullName: "Vecino", Email: "vecino@condo.test", Password: "clave1234"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaulted.Roles) != 1 || defaulted.Roles[0] != "user" {
		t.Fatalf("default roles = %v", defaulted.Roles)
	}

	tests := []struct {
		name string
		req  dto.CreateUserRequest
		kind helper.ErrorKind
	}{
		{"duplicate email", dto.CreateUserRequest{FullName: "Otra", Email: "ANA@condo.test", Password: "clave1234"}, helper.KindConflict},
		{"weak password", dto.CreateUserRequest{FullName: "Otra", Email: "otra@condo.test", Password: "abcdefgh"}, helper.KindValidation},
		{"unknown condominium", dto.CreateUserRequest{FullName: "Otra", Email: "otra@condo.test", Password: "clave1234", CondominiumIDs: []uuid.UUID{uuid.New()}}, helper.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, tt.req, nil); !helper.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestListUpdateAndMembership(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db, nil, 0)
	ctx := context.Background()
	north := testutil.CreateCondominium(t, db, "Norte")
	south := testutil.CreateCondominium(t, db, "Sur")

	mk := func(name, email string, roles []string, condos ...uuid.UUID) *dto.UserDetail {
		u, err := svc.CreateUser(ctx, dto.CreateUserRequest{FullName: name, Email: email, Password: "clave1234", Roles: roles, CondominiumIDs: condos}, nil)
		if err != nil {
			t.Fatal(err)
		}
		return u
	}
	ana := mk("Ana", "ana@condo.test", []string{"admin"}, north.CondominiumID)
	mk("Beto", "beto@condo.test", []string{"user"}, north.CondominiumID)
	mk("Carla", "carla@condo.test", []string{"user"}, south.CondominiumID)

	rows, total, err := svc.ListUsers(ctx, dto.ListUserQuery{CondominiumIDs: []uuid.UUID{north.CondominiumID}, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(rows) != 2 || rows[0].FullName != "Ana" {
		t.Fatalf("north users = %d/%d", len(rows), total)
	}
	_, total, _ = svc.ListUsers(ctx, dto.ListUserQuery{Role: "user", Limit: 10})
	if total != 2 {
		t.Fatalf("role filter total = %d", total)
	}
	_, total, _ = svc.ListUsers(ctx, dto.ListUserQuery{Search: "CAR", Limit: 10})
	if total != 1 {
		t.Fatalf("search total = %d", total)
	}
	_, total, _ = svc.ListUsers(ctx, dto.ListUserQuery{CondominiumIDs: []uuid.UUID{}, Limit: 10})
	if total != 0 {
		t.Fatalf("empty scope total = %d", total)
	}

	inactive := false
	roles := []string{"accountant", "admin"}
	updated, err := svc.UpdateUser(ctx, ana.ID, dto.UpdateUserRequest{IsActive: &inactive, Roles: &roles}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsActive || len(updated.Roles) != 2 {
		t.Fatalf("updated = %+v roles=%v", updated.UserModel, updated.Roles)
	}
	if _, err := svc.UpdateUser(ctx, uuid.New(), dto.UpdateUserRequest{}, nil); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}

	withSouth, err := svc.AssignCondominium(ctx, ana.ID, south.CondominiumID)
	if err != nil {
		t.Fatal(err)
	}
	if len(withSouth.CondominiumIDs) != 2 {
		t.Fatalf("memberships = %v", withSouth.CondominiumIDs)
	}
	if _, err := svc.AssignCondominium(ctx, ana.ID, south.CondominiumID); err != nil {
		t.Fatalf("assign should be idempotent: %v", err)
	}
	if _, err := svc.AssignCondominium(ctx, ana.ID, uuid.New()); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown condominium err = %v", err)
	}
	if err := svc.UnassignCondominium(ctx, ana.ID, south.CondominiumID); err != nil {
		t.Fatal(err)
	}
	if err := svc.UnassignCondominium(ctx, ana.ID, south.CondominiumID); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("second unassign err = %v", err)
	}
}
