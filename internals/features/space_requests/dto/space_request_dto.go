package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSpaceRequestRequest struct {
	ResidentID  uuid.UUID `json:"resident_id" validate:"required"`
	SpaceName   string    `json:"space_name" validate:"required,max=255"`
	RequestDate time.Time `json:"request_date" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Purpose     *string   `json:"purpose" validate:"omitempty,max=2000"`
}

type RejectSpaceRequestRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required,max=2000"`
}

type ListSpaceRequestQuery struct {
	CondominiumID uuid.UUID
	Status        *string
	SpaceName     string
	Offset        int
	Limit         int
}
