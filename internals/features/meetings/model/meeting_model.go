package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MeetingTypeBoard     = "board_meeting"
	MeetingTypeCommittee = "committee"
	MeetingTypeGeneral   = "general"
	MeetingTypeOther     = "other"
)

type Meeting struct {
	MeetingID            uuid.UUID `json:"meeting_id" gorm:"type:uuid;primaryKey;column:meeting_id"`
	MeetingCondominiumID uuid.UUID `json:"meeting_condominium_id" gorm:"type:uuid;not null;index:idx_meeting_condominium_date;column:meeting_condominium_id"`

	MeetingTitle         string    `json:"meeting_title" gorm:"size:255;not null;column:meeting_title"`
	MeetingType          string    `json:"meeting_type" gorm:"size:50;not null;column:meeting_type"`
	MeetingScheduledDate time.Time `json:"meeting_scheduled_date" gorm:"not null;index:idx_meeting_condominium_date;column:meeting_scheduled_date"`
	MeetingLocation      *string   `json:"meeting_location" gorm:"size:255;column:meeting_location"`
	MeetingAgenda        *string   `json:"meeting_agenda" gorm:"type:text;column:meeting_agenda"`
	MeetingMinutes       *string   `json:"meeting_minutes" gorm:"type:text;column:meeting_minutes"`
	MeetingIsCompleted   bool      `json:"meeting_is_completed" gorm:"not null;column:meeting_is_completed"`

	MeetingCreatedBy *uuid.UUID `json:"meeting_created_by" gorm:"type:uuid;column:meeting_created_by"`
	MeetingCreatedAt time.Time  `json:"meeting_created_at" gorm:"not null;autoCreateTime;column:meeting_created_at"`
	MeetingUpdatedAt time.Time  `json:"meeting_updated_at" gorm:"not null;autoUpdateTime;column:meeting_updated_at"`
}

func (Meeting) TableName() string { return "meetings" }

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.MeetingID == uuid.Nil {
		m.MeetingID = uuid.New()
	}
	return nil
}

// MeetingAttendance: unik per (meeting, resident).
type MeetingAttendance struct {
	MeetingAttendanceID         uuid.UUID `json:"meeting_attendance_id" gorm:"type:uuid;primaryKey;column:meeting_attendance_id"`
	MeetingAttendanceMeetingID  uuid.UUID `json:"meeting_attendance_meeting_id" gorm:"type:uuid;not null;uniqueIndex:uq_meeting_attendance;column:meeting_attendance_meeting_id"`
	MeetingAttendanceResidentID uuid.UUID `json:"meeting_attendance_resident_id" gorm:"type:uuid;not null;uniqueIndex:uq_meeting_attendance;column:meeting_attendance_resident_id"`
	MeetingAttendanceAttended   bool      `json:"meeting_attendance_attended" gorm:"not null;column:meeting_attendance_attended"`
	MeetingAttendanceNotes      *string   `json:"meeting_attendance_notes" gorm:"type:text;column:meeting_attendance_notes"`

	MeetingAttendanceCreatedAt time.Time `json:"meeting_attendance_created_at" gorm:"not null;autoCreateTime;column:meeting_attendance_created_at"`
	MeetingAttendanceUpdatedAt time.Time `json:"meeting_attendance_updated_at" gorm:"not null;autoUpdateTime;column:meeting_attendance_updated_at"`
}

func (MeetingAttendance) TableName() string { return "meeting_attendances" }

func (m *MeetingAttendance) BeforeCreate(tx *gorm.DB) error {
	if m.MeetingAttendanceID == uuid.Nil {
		m.MeetingAttendanceID = uuid.New()
	}
	return nil
}
