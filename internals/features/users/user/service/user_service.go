package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	"condominio_backend/internals/constants"
	condoModel "condominio_backend/internals/features/condominiums/model"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	"condominio_backend/internals/features/users/user/dto"
	"condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

type UserService struct {
	DB        *gorm.DB
	Store     oss.ObjectStore // boleh nil; foto profil lalu ditolak
	MaxUpload int64
	log       zerolog.Logger
}

func NewUserService(db *gorm.DB, store oss.ObjectStore, maxUpload int64) *UserService {
	return &UserService{DB: db, Store: store, MaxUpload: maxUpload, log: configs.WithComponent("users")}
}

func (s *UserService) ensureCondominiums(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.WithContext(ctx).Model(&condoModel.Condominium{}).
		Where("condominium_id IN ?", ids).
		Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return helper.Validation("one or more condominiums do not exist")
	}
	return nil
}

// CreateUser membuat user + role + keanggotaan dalam satu transaksi.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actor *uuid.UUID) (*dto.UserDetail, error) {
	req.Normalize()
	if !authHelper.IsStrongPassword(req.Password) {
		return nil, helper.Validation("password must be at least %d characters and contain letters and digits", authHelper.MinPasswordLength)
	}
	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := model.UserModel{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		IsActive: true,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := authRepo.FindUserByEmail(ctx, tx, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return helper.Conflict("email %s is already registered", req.Email)
		}
		if err := s.ensureCondominiums(ctx, tx, req.CondominiumIDs); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("email %s is already registered", req.Email)
			}
			return err
		}
		if err := authRepo.ReplaceUserRoles(ctx, tx, user.ID, lo.Uniq(req.Roles), actor); err != nil {
			return err
		}
		for _, id := range lo.Uniq(req.CondominiumIDs) {
			if err := authRepo.AddMembership(ctx, tx, user.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID.String()).Strs("roles", req.Roles).Msg("user created")
	return s.GetUser(ctx, user.ID)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDetail, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.NotFound("user not found")
	}
	details, err := s.decorate(ctx, []model.UserModel{*user})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// decorate menempelkan roles & condominium_ids dengan dua query batch.
func (s *UserService) decorate(ctx context.Context, users []model.UserModel) ([]dto.UserDetail, error) {
	out := make([]dto.UserDetail, 0, len(users))
	if len(users) == 0 {
		return out, nil
	}
	ids := lo.Map(users, func(u model.UserModel, _ int) uuid.UUID { return u.ID })

	type roleRow struct {
		UserID   uuid.UUID
		RoleName string
	}
	var roles []roleRow
	if err := s.DB.WithContext(ctx).
		Table("user_roles ur").
		Select("ur.user_id AS user_id, r.role_name AS role_name").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("ur.user_id IN ?", ids).
		Order("r.role_name ASC").
		Scan(&roles).Error; err != nil {
		return nil, err
	}
	var members []model.UserCondominium
	if err := s.DB.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	rolesBy := lo.GroupBy(roles, func(r roleRow) uuid.UUID { return r.UserID })
	membersBy := lo.GroupBy(members, func(m model.UserCondominium) uuid.UUID { return m.UserID })
	for _, u := range users {
		out = append(out, dto.UserDetail{
			UserModel:      u,
			Roles:          lo.Map(rolesBy[u.ID], func(r roleRow, _ int) string { return r.RoleName }),
			CondominiumIDs: lo.Map(membersBy[u.ID], func(m model.UserCondominium, _ int) uuid.UUID { return m.CondominiumID }),
		})
	}
	return out, nil
}

func (s *UserService) ListUsers(ctx context.Context, q dto.ListUserQuery) ([]dto.UserDetail, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.UserModel{})
	if q.CondominiumIDs != nil {
		tx = tx.Where("id IN (?)", s.DB.Model(&model.UserCondominium{}).
			Select("user_id").
			Where("condominium_id IN ?", q.CondominiumIDs))
	}
	if role := strings.TrimSpace(q.Role); role != "" {
		tx = tx.Where("id IN (?)", s.DB.Table("user_roles ur").
			Select("ur.user_id").
			Joins("JOIN roles r ON r.role_id = ur.role_id").
			Where("r.role_name = ?", role))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.UserModel
	if err := tx.Order("full_name ASC").Offset(q.Offset).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	details, err := s.decorate(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest, actor *uuid.UUID) (*dto.UserDetail, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.UserModel
		if err := helper.ForUpdate(tx).Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("user not found")
			}
			return err
		}
		updates := map[string]any{}
		if req.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*req.FullName)
		}
		if req.Phone != nil {
			if p := strings.TrimSpace(*req.Phone); p != "" {
				updates["phone"] = p
			} else {
				updates["phone"] = nil
			}
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Roles != nil {
			if err := authRepo.ReplaceUserRoles(ctx, tx, id, lo.Uniq(*req.Roles), actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *UserService) AssignCondominium(ctx context.Context, userID, condominiumID uuid.UUID) (*dto.UserDetail, error) {
	if user, err := authRepo.FindUserByID(ctx, s.DB, userID); err != nil {
		return nil, err
	} else if user == nil {
		return nil, helper.NotFound("user not found")
	}
	if err := s.ensureCondominiums(ctx, s.DB, []uuid.UUID{condominiumID}); err != nil {
		if helper.IsKind(err, helper.KindValidation) {
			return nil, helper.NotFound("condominium not found")
		}
		return nil, err
	}
	if err := authRepo.AddMembership(ctx, s.DB, userID, condominiumID); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func (s *UserService) UnassignCondominium(ctx context.Context, userID, condominiumID uuid.UUID) error {
	n, err := authRepo.RemoveMembership(ctx, s.DB, userID, condominiumID)
	if err != nil {
		return err
	}
	if n == 0 {
		return helper.NotFound("membership not found")
	}
	return nil
}

// DeleteUser menghapus user beserta role dan keanggotaannya; resident yang
// tertaut dilepas, bukan ikut dihapus.
func (s *UserService) DeleteUser(ctx context.Context, id, actor uuid.UUID) error {
	if id == actor {
		return helper.Validation("cannot delete your own account")
	}
	var photo string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.UserModel
		if err := helper.ForUpdate(tx).Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("user not found")
			}
			return err
		}
		if user.PhotoKey != nil {
			photo = *user.PhotoKey
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserCondominium{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&condoModel.Resident{}).
			Where("resident_user_id = ?", id).
			Update("resident_user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}
	s.removeObject(ctx, photo)
	s.log.Info().Str("user_id", id.String()).Str("deleted_by", actor.String()).Msg("user deleted")
	return nil
}

// ListRoles: himpunan role tertutup; role_id terisi bila sudah ada di tabel roles.
func (s *UserService) ListRoles(ctx context.Context) ([]dto.RoleInfo, error) {
	var rows []model.RoleModel
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := lo.SliceToMap(rows, func(r model.RoleModel) (string, uuid.UUID) { return r.RoleName, r.RoleID })
	return lo.Map(constants.AllRoles, func(r constants.Role, _ int) dto.RoleInfo {
		info := dto.RoleInfo{Name: r.String(), Description: r.Description()}
		if id, ok := ids[r.String()]; ok {
			info.RoleID = &id
		}
		return info
	}), nil
}
