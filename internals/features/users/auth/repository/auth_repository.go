package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userModel "condominio_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// FindUserByEmail: nil, nil bila tidak ada.
func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND google_id IS NULL", userID).
		Update("google_id", googleID).Error
}

/* ====================== ROLES ====================== */

// UserRoleNames: nama role user, urut alfabet.
func UserRoleNames(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Table("user_roles ur").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Order("r.role_name ASC").
		Pluck("r.role_name", &names).Error
	return names, err
}

// EnsureRole mencari role berdasarkan nama, membuatnya bila belum ada.
func EnsureRole(ctx context.Context, db *gorm.DB, name string) (*userModel.RoleModel, error) {
	var role userModel.RoleModel
	err := db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	role = userModel.RoleModel{RoleName: name}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "role_name"}}, DoNothing: true}).
		Create(&role).Error; err != nil {
		return nil, err
	}
	// insert bisa kalah balapan: baca ulang
	if err := db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ReplaceUserRoles mengganti seluruh role user dengan daftar baru.
func ReplaceUserRoles(ctx context.Context, db *gorm.DB, userID uuid.UUID, roles []string, assignedBy *uuid.UUID) error {
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userModel.UserRole{}).Error; err != nil {
		return err
	}
	for _, name := range roles {
		role, err := EnsureRole(ctx, db, name)
		if err != nil {
			return err
		}
		if err := db.WithContext(ctx).Create(&userModel.UserRole{
			UserID:     userID,
			RoleID:     role.RoleID,
			AssignedBy: assignedBy,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

/* ====================== MEMBERSHIP ====================== */

func UserCondominiumIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).
		Model(&userModel.UserCondominium{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("condominium_id", &ids).Error
	return ids, err
}

// AddMembership idempotent.
func AddMembership(ctx context.Context, db *gorm.DB, userID, condominiumID uuid.UUID) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "condominium_id"}},
			DoNothing: true,
		}).
		Create(&userModel.UserCondominium{UserID: userID, CondominiumID: condominiumID}).Error
}

func RemoveMembership(ctx context.Context, db *gorm.DB, userID, condominiumID uuid.UUID) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND condominium_id = ?", userID, condominiumID).
		Delete(&userModel.UserCondominium{})
	return res.RowsAffected, res.Error
}
