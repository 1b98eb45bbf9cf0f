package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCommercial = "commercial"
	PropertyTypeParking    = "parking"
	PropertyTypeStorage    = "storage"
	PropertyTypeOther      = "other"
)

type Property struct {
	PropertyID            uuid.UUID  `json:"property_id" gorm:"type:uuid;primaryKey;column:property_id"`
	PropertyCondominiumID uuid.UUID  `json:"property_condominium_id" gorm:"type:uuid;not null;column:property_condominium_id;uniqueIndex:uq_property_code_per_condominium"`
	PropertyBlockID       *uuid.UUID `json:"property_block_id" gorm:"type:uuid;index;column:property_block_id"`

	PropertyCode        string               `json:"property_code" gorm:"size:40;not null;column:property_code;uniqueIndex:uq_property_code_per_condominium"`
	PropertyType        string               `json:"property_type" gorm:"size:30;not null;default:apartment;column:property_type"`
	PropertyArea        decimal.NullDecimal `json:"property_area" gorm:"type:numeric(10,2);column:property_area"`
	PropertyDescription *string              `json:"property_description" gorm:"type:text;column:property_description"`
	PropertyPhotoKey    *string              `json:"property_photo_key" gorm:"size:500;column:property_photo_key"`

	PropertyCreatedAt time.Time `json:"property_created_at" gorm:"not null;autoCreateTime;column:property_created_at"`
	PropertyUpdatedAt time.Time `json:"property_updated_at" gorm:"not null;autoUpdateTime;column:property_updated_at"`
}

func (Property) TableName() string { return "properties" }

func (m *Property) BeforeCreate(tx *gorm.DB) error {
	if m.PropertyID == uuid.Nil {
		m.PropertyID = uuid.New()
	}
	return nil
}
