package dto

import (
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/notifications/model"
)

type CreateNotificationRequest struct {
	Title   string         `json:"title" validate:"required,max=255"`
	Message string         `json:"message" validate:"required"`
	Type    string         `json:"notification_type" validate:"omitempty,oneof=announcement payment_reminder assembly maintenance other"`
	UserID  *uuid.UUID     `json:"user_id"`
	Data    map[string]any `json:"data"`
}

type ListMineQuery struct {
	UserID         uuid.UUID
	CondominiumIDs []uuid.UUID
	UnreadOnly     bool
	Offset         int
	Limit          int
}

type NotificationItem struct {
	model.Notification
	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
