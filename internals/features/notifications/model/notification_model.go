package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeAnnouncement    = "announcement"
	NotificationTypePaymentReminder = "payment_reminder"
	NotificationTypeAssembly        = "assembly"
	NotificationTypeMaintenance     = "maintenance"
	NotificationTypeOther           = "other"
)

// Notification: user_id nil = broadcast ke semua anggota condominium.
type Notification struct {
	NotificationID            uuid.UUID  `json:"notification_id" gorm:"type:uuid;primaryKey;column:notification_id"`
	NotificationCondominiumID uuid.UUID  `json:"notification_condominium_id" gorm:"type:uuid;not null;index;column:notification_condominium_id"`
	NotificationUserID        *uuid.UUID `json:"notification_user_id" gorm:"type:uuid;index;column:notification_user_id"`

	NotificationTitle   string `json:"notification_title" gorm:"size:255;not null;column:notification_title"`
	NotificationMessage string `json:"notification_message" gorm:"type:text;not null;column:notification_message"`
	NotificationType    string `json:"notification_type" gorm:"size:50;not null;column:notification_type"`

	// konteks opsional, mis. {"invoice_id": "..."} untuk deep-link di klien
	NotificationData datatypes.JSONMap `json:"notification_data,omitempty" gorm:"column:notification_data"`

	NotificationCreatedBy *uuid.UUID `json:"notification_created_by" gorm:"type:uuid;column:notification_created_by"`
	NotificationCreatedAt time.Time  `json:"notification_created_at" gorm:"not null;autoCreateTime;index;column:notification_created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (m *Notification) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}

// NotificationRead: status baca per user (broadcast dibaca tiap user sendiri-sendiri).
type NotificationRead struct {
	NotificationReadNotificationID uuid.UUID `json:"notification_id" gorm:"type:uuid;primaryKey;column:notification_read_notification_id"`
	NotificationReadUserID         uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;column:notification_read_user_id"`
	NotificationReadAt             time.Time `json:"read_at" gorm:"not null;column:notification_read_at"`
}

func (NotificationRead) TableName() string { return "notification_reads" }
