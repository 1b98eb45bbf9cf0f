package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "condominio_backend/internals/features/users/auth/repository"
	"condominio_backend/internals/features/users/user/dto"
	"condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

const photoURLTTL = 15 * time.Minute

/* =========================================================
   Profil milik sendiri
========================================================= */

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.ProfileResponse{UserDetail: *u}
	if s.Store != nil && u.PhotoKey != nil {
		url, err := s.Store.PresignGet(ctx, *u.PhotoKey, photoURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign profile photo: %w", err)
		}
		out.PhotoURL = url
	}
	return out, nil
}

// UpdateProfile: email baru harus belum dipakai user lain.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
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
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != user.Email {
				existing, err := authRepo.FindUserByEmail(ctx, tx, email)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != id {
					return helper.Conflict("email %s is already registered", email)
				}
				updates["email"] = email
			}
		}
		if req.Phone != nil {
			if p := strings.TrimSpace(*req.Phone); p != "" {
				updates["phone"] = p
			} else {
				updates["phone"] = nil
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("email is already registered")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

// UploadProfilePhoto: disimpan sebagai webp; foto lama dibuang setelah baris terupdate.
func (s *UserService) UploadProfilePhoto(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*dto.ProfileResponse, error) {
	if s.Store == nil {
		return nil, helper.Validation("object storage is not configured")
	}
	user, err := authRepo.FindUserByID(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.NotFound("user not found")
	}
	up, err := oss.UploadImageAsWebP(ctx, s.Store, fmt.Sprintf("users/%s", id), fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	var oldKey string
	if user.PhotoKey != nil {
		oldKey = *user.PhotoKey
	}
	if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Update("photo_key", up.Key).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	if oldKey != "" && oldKey != up.Key {
		s.removeObject(ctx, oldKey)
	}
	return s.GetProfile(ctx, id)
}

func (s *UserService) removeObject(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("profile photo cleanup failed")
	}
}
