package seeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"condominio_backend/internals/constants"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	userModel "condominio_backend/internals/features/users/user/model"
	"condominio_backend/internals/testutil"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre Sur")

	file := filepath.Join(t.TempDir(), "users.json")
	body := `[{"full_name":"Contadora","email":"conta@condo.test","password":"conta1234","roles":["accountant"],"condominium_ids":["` + condo.CondominiumID.String() + `"]}]`
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	opts := Options{SuperAdminEmail: "Root@Condo.test", SuperAdminPassword: "root12345", UsersFile: file}

	for i := 0; i < 2; i++ {
		if err := RunAllSeeds(ctx, db, opts); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var roles, users int64
	db.Model(&userModel.RoleModel{}).Count(&roles)
	db.Model(&userModel.UserModel{}).Count(&users)
	if roles != int64(len(constants.AllRoles)) || users != 2 {
		t.Fatalf("roles=%d users=%d", roles, users)
	}

	root, err := authRepo.FindUserByEmail(ctx, db, "root@condo.test")
	if err != nil || root == nil {
		t.Fatalf("super admin missing: %v", err)
	}
	names, err := authRepo.UserRoleNames(ctx, db, root.ID)
	if err != nil || len(names) != 1 || names[0] != "super_admin" {
		t.Fatalf("super admin roles = %v (%v)", names, err)
	}
	conta, _ := authRepo.FindUserByEmail(ctx, db, "conta@condo.test")
	ids, err := authRepo.UserCondominiumIDs(ctx, db, conta.ID)
	if err != nil || len(ids) != 1 || ids[0] != condo.CondominiumID {
		t.Fatalf("memberships = %v (%v)", ids, err)
	}
}

func TestSeedRejectsWeakPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	err := RunAllSeeds(context.Background(), db, Options{SuperAdminEmail: "root@condo.test", SuperAdminPassword: "short"})
	if err == nil {
		t.Fatal("expected weak password error")
	}
}

func TestSeedWithoutSuperAdminCredentials(t *testing.T) {
	db := testutil.OpenDB(t)
	if err := RunAllSeeds(context.Background(), db, Options{}); err != nil {
		t.Fatal(err)
	}
	var users int64
	db.Model(&userModel.UserModel{}).Count(&users)
	if users != 0 {
		t.Fatalf("users = %d, want none without SUPER_ADMIN_EMAIL", users)
	}
}
