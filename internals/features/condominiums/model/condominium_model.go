// file: internals/features/condominiums/model/condominium_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Condominium struct {
	CondominiumID uuid.UUID `json:"condominium_id" gorm:"type:uuid;primaryKey;column:condominium_id"`

	CondominiumName       string  `json:"condominium_name" gorm:"size:255;not null;column:condominium_name"`
	CondominiumShortName  *string `json:"condominium_short_name" gorm:"size:60;column:condominium_short_name"`
	CondominiumAddress    *string `json:"condominium_address" gorm:"type:text;column:condominium_address"`
	CondominiumCity       *string `json:"condominium_city" gorm:"size:120;column:condominium_city"`
	CondominiumState      *string `json:"condominium_state" gorm:"size:120;column:condominium_state"`
	CondominiumCountry    *string `json:"condominium_country" gorm:"size:120;column:condominium_country"`
	CondominiumPostalCode *string `json:"condominium_postal_code" gorm:"size:20;column:condominium_postal_code"`
	CondominiumPhone      *string `json:"condominium_phone" gorm:"size:40;column:condominium_phone"`
	CondominiumEmail      *string `json:"condominium_email" gorm:"size:255;column:condominium_email"`
	CondominiumTaxID      *string `json:"condominium_tax_id" gorm:"size:40;column:condominium_tax_id"`

	// Administrator contact
	CondominiumAdminName  *string `json:"condominium_admin_name" gorm:"size:255;column:condominium_admin_name"`
	CondominiumAdminPhone *string `json:"condominium_admin_phone" gorm:"size:40;column:condominium_admin_phone"`
	CondominiumAdminEmail *string `json:"condominium_admin_email" gorm:"size:255;column:condominium_admin_email"`

	CondominiumLogoKey     *string `json:"condominium_logo_key" gorm:"size:500;column:condominium_logo_key"`
	CondominiumDescription *string `json:"condominium_description" gorm:"type:text;column:condominium_description"`
	CondominiumIsActive    bool    `json:"condominium_is_active" gorm:"not null;default:true;column:condominium_is_active"`

	CondominiumCreatedAt time.Time      `json:"condominium_created_at" gorm:"not null;autoCreateTime;column:condominium_created_at"`
	CondominiumUpdatedAt time.Time      `json:"condominium_updated_at" gorm:"not null;autoUpdateTime;column:condominium_updated_at"`
	CondominiumDeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:condominium_deleted_at"`
}

func (Condominium) TableName() string { return "condominiums" }

func (m *Condominium) BeforeCreate(tx *gorm.DB) error {
	if m.CondominiumID == uuid.Nil {
		m.CondominiumID = uuid.New()
	}
	return nil
}

/* ===================== Block ===================== */

type Block struct {
	BlockID            uuid.UUID `json:"block_id" gorm:"type:uuid;primaryKey;column:block_id"`
	BlockCondominiumID uuid.UUID `json:"block_condominium_id" gorm:"type:uuid;not null;column:block_condominium_id;uniqueIndex:uq_block_name_per_condominium"`
	BlockName          string    `json:"block_name" gorm:"size:120;not null;column:block_name;uniqueIndex:uq_block_name_per_condominium"`
	BlockDescription   *string   `json:"block_description" gorm:"type:text;column:block_description"`

	BlockCreatedAt time.Time `json:"block_created_at" gorm:"not null;autoCreateTime;column:block_created_at"`
	BlockUpdatedAt time.Time `json:"block_updated_at" gorm:"not null;autoUpdateTime;column:block_updated_at"`
}

func (Block) TableName() string { return "blocks" }

func (m *Block) BeforeCreate(tx *gorm.DB) error {
	if m.BlockID == uuid.Nil {
		m.BlockID = uuid.New()
	}
	return nil
}
