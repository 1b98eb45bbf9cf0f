package service

import (
	"context"

	"github.com/google/uuid"

	"condominio_backend/internals/features/users/auth/dto"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	helper "condominio_backend/internals/helpers"
)

// ========================== CHANGE PASSWORD ==========================
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return helper.NotFound("user not found")
	}

	if err := authHelper.CheckPasswordHash(user.Password, req.CurrentPassword); err != nil {
		return helper.Validation("current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return helper.Validation("new password must differ from the current one")
	}
	if !authHelper.IsStrongPassword(req.NewPassword) {
		return helper.Validation("password must be at least %d characters and contain letters and digits", authHelper.MinPasswordLength)
	}

	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, userID, hash); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID.String()).Msg("password changed")
	return nil
}
