package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SpaceRequestStatusPending   = "pending"
	SpaceRequestStatusApproved  = "approved"
	SpaceRequestStatusRejected  = "rejected"
	SpaceRequestStatusCancelled = "cancelled"
)

// SpaceRequest: permohonan pemakaian area bersama (salón comunal, piscina, cancha, ...).
type SpaceRequest struct {
	SpaceRequestID            uuid.UUID `json:"space_request_id" gorm:"type:uuid;primaryKey;column:space_request_id"`
	SpaceRequestCondominiumID uuid.UUID `json:"space_request_condominium_id" gorm:"type:uuid;not null;index:idx_space_request_condominium_status;column:space_request_condominium_id"`
	SpaceRequestResidentID    uuid.UUID `json:"space_request_resident_id" gorm:"type:uuid;not null;index;column:space_request_resident_id"`

	SpaceRequestSpaceName   string    `json:"space_request_space_name" gorm:"size:255;not null;index;column:space_request_space_name"`
	SpaceRequestRequestDate time.Time `json:"space_request_request_date" gorm:"not null;column:space_request_request_date"`
	SpaceRequestStartTime   time.Time `json:"space_request_start_time" gorm:"not null;column:space_request_start_time"`
	SpaceRequestEndTime     time.Time `json:"space_request_end_time" gorm:"not null;column:space_request_end_time"`
	SpaceRequestPurpose     *string   `json:"space_request_purpose" gorm:"type:text;column:space_request_purpose"`
	SpaceRequestStatus      string    `json:"space_request_status" gorm:"size:20;not null;default:pending;index:idx_space_request_condominium_status;column:space_request_status"`

	SpaceRequestReviewedBy      *uuid.UUID `json:"space_request_reviewed_by" gorm:"type:uuid;column:space_request_reviewed_by"`
	SpaceRequestReviewedAt      *time.Time `json:"space_request_reviewed_at" gorm:"column:space_request_reviewed_at"`
	SpaceRequestRejectionReason *string    `json:"space_request_rejection_reason" gorm:"type:text;column:space_request_rejection_reason"`

	SpaceRequestCreatedAt time.Time `json:"space_request_created_at" gorm:"not null;autoCreateTime;column:space_request_created_at"`
	SpaceRequestUpdatedAt time.Time `json:"space_request_updated_at" gorm:"not null;autoUpdateTime;column:space_request_updated_at"`
}

func (SpaceRequest) TableName() string { return "space_requests" }

func (m *SpaceRequest) BeforeCreate(tx *gorm.DB) error {
	if m.SpaceRequestID == uuid.Nil {
		m.SpaceRequestID = uuid.New()
	}
	if m.SpaceRequestStatus == "" {
		m.SpaceRequestStatus = SpaceRequestStatusPending
	}
	return nil
}
