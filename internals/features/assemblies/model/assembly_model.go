package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Status & Type ===================== */

type AssemblyStatus string

const (
	AssemblyStatusScheduled  AssemblyStatus = "scheduled"
	AssemblyStatusInProgress AssemblyStatus = "in_progress"
	AssemblyStatusCompleted  AssemblyStatus = "completed"
	AssemblyStatusCancelled  AssemblyStatus = "cancelled"
)

func (s AssemblyStatus) Valid() bool {
	switch s {
	case AssemblyStatusScheduled, AssemblyStatusInProgress, AssemblyStatusCompleted, AssemblyStatusCancelled:
		return true
	}
	return false
}

const (
	AssemblyTypeOrdinary      = "ordinary"
	AssemblyTypeExtraordinary = "extraordinary"
)

/* ===================== Assembly ===================== */

type Assembly struct {
	AssemblyID            uuid.UUID `json:"assembly_id" gorm:"type:uuid;primaryKey;column:assembly_id"`
	AssemblyCondominiumID uuid.UUID `json:"assembly_condominium_id" gorm:"type:uuid;not null;uniqueIndex:uq_assembly_number_per_condominium;column:assembly_condominium_id"`
	AssemblyNumber        int       `json:"assembly_number" gorm:"not null;uniqueIndex:uq_assembly_number_per_condominium;column:assembly_number"`

	AssemblyTitle         string    `json:"assembly_title" gorm:"size:255;not null;column:assembly_title"`
	AssemblyType          string    `json:"assembly_type" gorm:"size:20;not null;default:ordinary;column:assembly_type"`
	AssemblyScheduledDate time.Time `json:"assembly_scheduled_date" gorm:"not null;column:assembly_scheduled_date"`
	AssemblyLocation      *string   `json:"assembly_location" gorm:"size:255;column:assembly_location"`
	AssemblyAgenda        *string   `json:"assembly_agenda" gorm:"type:text;column:assembly_agenda"`
	AssemblyMinutes       *string   `json:"assembly_minutes" gorm:"type:text;column:assembly_minutes"`

	AssemblyStartedAt *time.Time `json:"assembly_started_at" gorm:"column:assembly_started_at"`
	AssemblyEndedAt   *time.Time `json:"assembly_ended_at" gorm:"column:assembly_ended_at"`

	// persen (0..100)
	AssemblyRequiredQuorum float64        `json:"assembly_required_quorum" gorm:"not null;column:assembly_required_quorum"`
	AssemblyCurrentQuorum  float64        `json:"assembly_current_quorum" gorm:"not null;default:0;column:assembly_current_quorum"`
	AssemblyStatus         AssemblyStatus `json:"assembly_status" gorm:"type:varchar(20);not null;index;column:assembly_status"`

	AssemblyCreatedBy *uuid.UUID `json:"assembly_created_by" gorm:"type:uuid;column:assembly_created_by"`
	AssemblyCreatedAt time.Time  `json:"assembly_created_at" gorm:"not null;autoCreateTime;column:assembly_created_at"`
	AssemblyUpdatedAt time.Time  `json:"assembly_updated_at" gorm:"not null;autoUpdateTime;column:assembly_updated_at"`
}

func (Assembly) TableName() string { return "assemblies" }

func (m *Assembly) BeforeCreate(tx *gorm.DB) error {
	if m.AssemblyID == uuid.Nil {
		m.AssemblyID = uuid.New()
	}
	return nil
}

/* ===================== Attendance ===================== */

// AssemblyAttendance: satu baris per (assembly, resident); dicatat ulang = update.
type AssemblyAttendance struct {
	AttendanceID            uuid.UUID  `json:"attendance_id" gorm:"type:uuid;primaryKey;column:attendance_id"`
	AttendanceAssemblyID    uuid.UUID  `json:"attendance_assembly_id" gorm:"type:uuid;not null;uniqueIndex:uq_attendance_assembly_resident;column:attendance_assembly_id"`
	AttendanceResidentID    uuid.UUID  `json:"attendance_resident_id" gorm:"type:uuid;not null;uniqueIndex:uq_attendance_assembly_resident;column:attendance_resident_id"`
	AttendanceAttended      bool       `json:"attendance_attended" gorm:"not null;column:attendance_attended"`
	AttendanceConfirmedAt   *time.Time `json:"attendance_confirmed_at" gorm:"column:attendance_confirmed_at"`
	AttendanceRepresentedBy *string    `json:"attendance_represented_by" gorm:"size:255;column:attendance_represented_by"`
	AttendanceNotes         *string    `json:"attendance_notes" gorm:"type:text;column:attendance_notes"`

	AttendanceCreatedAt time.Time `json:"attendance_created_at" gorm:"not null;autoCreateTime;column:attendance_created_at"`
	AttendanceUpdatedAt time.Time `json:"attendance_updated_at" gorm:"not null;autoUpdateTime;column:attendance_updated_at"`
}

func (AssemblyAttendance) TableName() string { return "assembly_attendances" }

func (m *AssemblyAttendance) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
