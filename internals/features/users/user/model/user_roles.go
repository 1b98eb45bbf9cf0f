package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleModel struct {
	RoleID   uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey" json:"role_id"`
	RoleName string    `gorm:"column:role_name;size:40;uniqueIndex;not null" json:"role_name"`
}

func (RoleModel) TableName() string { return "roles" }

func (r *RoleModel) BeforeCreate(tx *gorm.DB) error {
	if r.RoleID == uuid.Nil {
		r.RoleID = uuid.New()
	}
	return nil
}

type UserRole struct {
	UserRoleID uuid.UUID  `gorm:"column:user_role_id;type:uuid;primaryKey" json:"user_role_id"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_role"        json:"user_id"`
	RoleID     uuid.UUID  `gorm:"column:role_id;type:uuid;not null;uniqueIndex:uq_user_role"        json:"role_id"`
	AssignedAt time.Time  `gorm:"column:assigned_at;autoCreateTime"                                json:"assigned_at"`
	AssignedBy *uuid.UUID `gorm:"column:assigned_by;type:uuid"                                     json:"assigned_by,omitempty"`
}

func (UserRole) TableName() string { return "user_roles" }

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	if ur.UserRoleID == uuid.Nil {
		ur.UserRoleID = uuid.New()
	}
	return nil
}

// UserCondominium: keanggotaan user pada kondominium (dasar cek akses tenant).
type UserCondominium struct {
	UserCondominiumID uuid.UUID `gorm:"column:user_condominium_id;type:uuid;primaryKey" json:"user_condominium_id"`
	UserID            uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_condominium" json:"user_id"`
	CondominiumID     uuid.UUID `gorm:"column:condominium_id;type:uuid;not null;uniqueIndex:uq_user_condominium;index" json:"condominium_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserCondominium) TableName() string { return "user_condominiums" }

func (uc *UserCondominium) BeforeCreate(tx *gorm.DB) error {
	if uc.UserCondominiumID == uuid.Nil {
		uc.UserCondominiumID = uuid.New()
	}
	return nil
}
