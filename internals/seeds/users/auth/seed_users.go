package user

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	"condominio_backend/internals/constants"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	"condominio_backend/internals/features/users/user/model"
)

type UserSeed struct {
	FullName       string      `json:"full_name"`
	Email          string      `json:"email"`
	Password       string      `json:"password"`
	Roles          []string    `json:"roles"`
	CondominiumIDs []uuid.UUID `json:"condominium_ids"`
}

// SeedRoles memastikan semua role dikenal ada di tabel roles.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, r := range constants.AllRoles {
		if _, err := authRepo.EnsureRole(ctx, db, r.String()); err != nil {
			return fmt.Errorf("seed role %s: %w", r, err)
		}
	}
	return nil
}

// SeedSuperAdmin membuat akun super admin pertama. User yang sudah ada dilewati.
func SeedSuperAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = authHelper.NormalizeEmail(email)
	if email == "" || password == "" {
		log := configs.WithComponent("seed")
		log.Warn().Msg("SUPER_ADMIN_EMAIL/SUPER_ADMIN_PASSWORD kosong, super admin dilewati")
		return nil
	}
	_, err := seedOne(ctx, db, UserSeed{
		FullName: "Super Admin",
		Email:    email,
		Password: password,
		Roles:    []string{constants.RoleSuperAdmin.String()},
	})
	return err
}

func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	log := configs.WithComponent("seed")
	log.Info().Str("file", filePath).Msg("membaca file user")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	created := 0
	for _, in := range inputs {
		ok, err := seedOne(ctx, db, in)
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	log.Info().Int("created", created).Int("total", len(inputs)).Msg("seed user selesai")
	return nil
}

func seedOne(ctx context.Context, db *gorm.DB, in UserSeed) (bool, error) {
	log := configs.WithComponent("seed")
	email := authHelper.NormalizeEmail(in.Email)

	existing, err := authRepo.FindUserByEmail(ctx, db, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("user sudah ada, dilewati")
		return false, nil
	}
	if !authHelper.IsStrongPassword(in.Password) {
		return false, fmt.Errorf("password untuk %s terlalu lemah", email)
	}
	hash, err := authHelper.HashPassword(in.Password)
	if err != nil {
		return false, err
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{constants.RoleUser.String()}
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := model.UserModel{FullName: in.FullName, Email: email, Password: hash, IsActive: true}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if err := authRepo.ReplaceUserRoles(ctx, tx, u.ID, roles, nil); err != nil {
			return err
		}
		for _, id := range in.CondominiumIDs {
			if err := authRepo.AddMembership(ctx, tx, u.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("insert user %s: %w", email, err)
	}
	log.Info().Str("email", email).Strs("roles", roles).Msg("user dibuat")
	return true, nil
}
