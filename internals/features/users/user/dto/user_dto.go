package dto

import (
	"strings"

	"github.com/google/uuid"

	"condominio_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest: dibuat oleh admin, tidak ada registrasi publik.
type CreateUserRequest struct {
	FullName       string      `json:"full_name" validate:"required,min=3,max=120"`
	Email          string      `json:"email" validate:"required,email,max=255"`
	Password       string      `json:"password" validate:"required,min=8,max=72"`
	Phone          *string     `json:"phone" validate:"omitempty,max=40"`
	Roles          []string    `json:"roles" validate:"omitempty,dive,oneof=super_admin admin accountant accounting_assistant user"`
	CondominiumIDs []uuid.UUID `json:"condominium_ids"`
}

func (r *CreateUserRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if len(r.Roles) == 0 {
		r.Roles = []string{"user"}
	}
}

// UpdateUserRequest: field nil tidak diubah. Roles (bila ada) mengganti seluruh role.
type UpdateUserRequest struct {
	FullName *string   `json:"full_name" validate:"omitempty,min=3,max=120"`
	Phone    *string   `json:"phone" validate:"omitempty,max=40"`
	IsActive *bool     `json:"is_active"`
	Roles    *[]string `json:"roles" validate:"omitempty,min=1,dive,oneof=super_admin admin accountant accounting_assistant user"`
}

// UpdateProfileRequest: user mengubah datanya sendiri (tanpa role/status).
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
}

type MembershipRequest struct {
	CondominiumID uuid.UUID `json:"condominium_id" validate:"required"`
}

type ListUserQuery struct {
	// nil = semua kondominium (super admin)
	CondominiumIDs []uuid.UUID
	Role           string
	Search         string
	IsActive       *bool
	Offset         int
	Limit          int
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserDetail struct {
	model.UserModel
	Roles          []string    `json:"roles"`
	CondominiumIDs []uuid.UUID `json:"condominium_ids"`
}

// ProfileResponse: detail user + URL foto sementara.
type ProfileResponse struct {
	UserDetail
	PhotoURL string `json:"photo_url,omitempty"`
}

type RoleInfo struct {
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

func (d *UserDetail) HasRole(name string) bool {
	for _, r := range d.Roles {
		if r == name {
			return true
		}
	}
	return false
}
