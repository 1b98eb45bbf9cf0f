package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Resident struct {
	ResidentID            uuid.UUID  `json:"resident_id" gorm:"type:uuid;primaryKey;column:resident_id"`
	ResidentCondominiumID uuid.UUID  `json:"resident_condominium_id" gorm:"type:uuid;not null;index;column:resident_condominium_id"`
	ResidentUserID        *uuid.UUID `json:"resident_user_id" gorm:"type:uuid;index;column:resident_user_id"`

	ResidentFullName       string  `json:"resident_full_name" gorm:"size:255;not null;column:resident_full_name"`
	ResidentEmail          *string `json:"resident_email" gorm:"size:255;column:resident_email"`
	ResidentPhone          *string `json:"resident_phone" gorm:"size:40;column:resident_phone"`
	ResidentDocumentType   *string `json:"resident_document_type" gorm:"size:20;column:resident_document_type"`
	ResidentDocumentNumber *string `json:"resident_document_number" gorm:"size:40;column:resident_document_number"`
	ResidentPhotoKey       *string `json:"resident_photo_key" gorm:"size:500;column:resident_photo_key"`
	ResidentIsActive       bool    `json:"resident_is_active" gorm:"not null;default:true;column:resident_is_active"`

	ResidentCreatedAt time.Time `json:"resident_created_at" gorm:"not null;autoCreateTime;column:resident_created_at"`
	ResidentUpdatedAt time.Time `json:"resident_updated_at" gorm:"not null;autoUpdateTime;column:resident_updated_at"`
}

func (Resident) TableName() string { return "residents" }

func (m *Resident) BeforeCreate(tx *gorm.DB) error {
	if m.ResidentID == uuid.Nil {
		m.ResidentID = uuid.New()
	}
	return nil
}

/* ===================== PropertyResident ===================== */

const (
	RelationOwner  = "owner"
	RelationTenant = "tenant"
	RelationFamily = "family"
)

type PropertyResident struct {
	PropertyResidentID         uuid.UUID            `json:"property_resident_id" gorm:"type:uuid;primaryKey;column:property_resident_id"`
	PropertyResidentPropertyID uuid.UUID            `json:"property_resident_property_id" gorm:"type:uuid;not null;column:property_resident_property_id;uniqueIndex:uq_property_resident"`
	PropertyResidentResidentID uuid.UUID            `json:"property_resident_resident_id" gorm:"type:uuid;not null;index;column:property_resident_resident_id;uniqueIndex:uq_property_resident"`
	PropertyResidentRelation   string               `json:"property_resident_relation" gorm:"size:20;not null;default:owner;column:property_resident_relation"`
	PropertyResidentOwnership  decimal.NullDecimal `json:"property_resident_ownership" gorm:"type:numeric(5,2);column:property_resident_ownership"`
	PropertyResidentIsPrimary  bool                 `json:"property_resident_is_primary" gorm:"not null;default:false;column:property_resident_is_primary"`
	PropertyResidentStartDate  *time.Time           `json:"property_resident_start_date" gorm:"column:property_resident_start_date"`
	PropertyResidentEndDate    *time.Time           `json:"property_resident_end_date" gorm:"column:property_resident_end_date"`

	PropertyResidentCreatedAt time.Time `json:"property_resident_created_at" gorm:"not null;autoCreateTime;column:property_resident_created_at"`
}

func (PropertyResident) TableName() string { return "property_residents" }

func (m *PropertyResident) BeforeCreate(tx *gorm.DB) error {
	if m.PropertyResidentID == uuid.Nil {
		m.PropertyResidentID = uuid.New()
	}
	return nil
}
