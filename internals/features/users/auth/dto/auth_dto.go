package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "condominio_backend/internals/features/users/user/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type MembershipItem struct {
	CondominiumID   uuid.UUID `json:"condominium_id"`
	CondominiumName string    `json:"condominium_name"`
}

type MeResponse struct {
	User         userModel.UserModel `json:"user"`
	Roles        []string            `json:"roles"`
	Condominiums []MembershipItem    `json:"condominiums"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Me          MeResponse `json:"me"`
}
