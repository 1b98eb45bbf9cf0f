package dto

import (
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/meetings/model"
)

type CreateMeetingRequest struct {
	Title         string    `json:"title" validate:"required,max=255"`
	Type          string    `json:"meeting_type" validate:"omitempty,oneof=board_meeting committee general other"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Location      *string   `json:"location" validate:"omitempty,max=255"`
	Agenda        *string   `json:"agenda"`
}

type UpdateMeetingRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Type          *string    `json:"meeting_type" validate:"omitempty,oneof=board_meeting committee general other"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	Agenda        *string    `json:"agenda"`
	Minutes       *string    `json:"minutes"`
	IsCompleted   *bool      `json:"is_completed"`
}

type ListMeetingQuery struct {
	CondominiumID uuid.UUID
	IsCompleted   *bool
	From          *time.Time
	To            *time.Time
	Offset        int
	Limit         int
}

type MeetingAttendanceRequest struct {
	ResidentID uuid.UUID `json:"resident_id" validate:"required"`
	Attended   bool      `json:"attended"`
	Notes      *string   `json:"notes"`
}

type MeetingDetail struct {
	model.Meeting
	Attendances   []model.MeetingAttendance `json:"attendances"`
	AttendedCount int                       `json:"attended_count"`
}
