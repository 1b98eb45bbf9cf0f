package seeds

import (
	"context"

	"gorm.io/gorm"

	users "condominio_backend/internals/seeds/users/auth"
)

type Options struct {
	SuperAdminEmail    string
	SuperAdminPassword string
	// UsersFile opsional: JSON array UserSeed
	UsersFile string
}

func RunAllSeeds(ctx context.Context, db *gorm.DB, opts Options) error {
	//* Roles
	if err := users.SeedRoles(ctx, db); err != nil {
		return err
	}

	//* User
	if err := users.SeedSuperAdmin(ctx, db, opts.SuperAdminEmail, opts.SuperAdminPassword); err != nil {
		return err
	}
	if opts.UsersFile != "" {
		return users.SeedUsersFromJSON(ctx, db, opts.UsersFile)
	}
	return nil
}
