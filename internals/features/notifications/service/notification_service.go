package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/notifications/dto"
	"condominio_backend/internals/features/notifications/model"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
)

type NotificationService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewNotificationService(db *gorm.DB, clock helper.Clock) *NotificationService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &NotificationService{DB: db, Clock: clock, log: configs.WithComponent("notifications")}
}

// Create: target (bila ada) harus anggota condominium yang sama.
func (s *NotificationService) Create(ctx context.Context, condoID uuid.UUID, req dto.CreateNotificationRequest, actor *uuid.UUID) (*model.Notification, error) {
	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&condoModel.Condominium{}).Where("condominium_id = ?", condoID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helper.NotFound("condominium not found")
	}
	if req.UserID != nil {
		if err := db.Model(&userModel.UserCondominium{}).
			Where("user_id = ? AND condominium_id = ?", *req.UserID, condoID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, helper.Validation("target user is not a member of this condominium")
		}
	}
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = model.NotificationTypeAnnouncement
	}
	row := model.Notification{
		NotificationCondominiumID: condoID,
		NotificationUserID:        req.UserID,
		NotificationTitle:         strings.TrimSpace(req.Title),
		NotificationMessage:       strings.TrimSpace(req.Message),
		NotificationType:          typ,
		NotificationCreatedBy:     actor,
	}
	if len(req.Data) > 0 {
		row.NotificationData = datatypes.JSONMap(req.Data)
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	s.log.Info().
		Str("notification_id", row.NotificationID.String()).
		Bool("broadcast", row.NotificationUserID == nil).
		Msg("notification created")
	return &row, nil
}

func (s *NotificationService) Find(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var row model.Notification
	if err := s.DB.WithContext(ctx).First(&row, "notification_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("notification not found")
		}
		return nil, err
	}
	return &row, nil
}

// VisibleTo: targeted ke user ini, atau broadcast di condominium yang bisa diakses.
func VisibleTo(n *model.Notification, userID uuid.UUID, hasCondominiumAccess bool) bool {
	if n.NotificationUserID != nil {
		return *n.NotificationUserID == userID
	}
	return hasCondominiumAccess
}

func (s *NotificationService) mineScope(q dto.ListMineQuery) *gorm.DB {
	return s.DB.Model(&model.Notification{}).
		Where("notification_condominium_id IN ?", q.CondominiumIDs).
		Where("(notification_user_id = ? OR notification_user_id IS NULL)", q.UserID)
}

func (s *NotificationService) unreadOnly(tx *gorm.DB, userID uuid.UUID) *gorm.DB {
	return tx.Where("notification_id NOT IN (?)", s.DB.Model(&model.NotificationRead{}).
		Select("notification_read_notification_id").
		Where("notification_read_user_id = ?", userID))
}

// ListMine: notifikasi targeted + broadcast untuk condominium milik user, terbaru dulu.
func (s *NotificationService) ListMine(ctx context.Context, q dto.ListMineQuery) ([]dto.NotificationItem, int64, error) {
	if len(q.CondominiumIDs) == 0 {
		return []dto.NotificationItem{}, 0, nil
	}
	tx := s.mineScope(q).WithContext(ctx)
	if q.UnreadOnly {
		tx = s.unreadOnly(tx, q.UserID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Notification
	page := tx.Order("notification_created_at DESC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ids := lo.Map(rows, func(n model.Notification, _ int) uuid.UUID { return n.NotificationID })
	var reads []model.NotificationRead
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).
			Where("notification_read_user_id = ? AND notification_read_notification_id IN ?", q.UserID, ids).
			Find(&reads).Error; err != nil {
			return nil, 0, err
		}
	}
	readBy := lo.KeyBy(reads, func(r model.NotificationRead) uuid.UUID { return r.NotificationReadNotificationID })

	out := lo.Map(rows, func(n model.Notification, _ int) dto.NotificationItem {
		item := dto.NotificationItem{Notification: n}
		if r, ok := readBy[n.NotificationID]; ok {
			at := r.NotificationReadAt
			item.IsRead, item.ReadAt = true, &at
		}
		return item
	})
	return out, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID, condoIDs []uuid.UUID) (int64, error) {
	if len(condoIDs) == 0 {
		return 0, nil
	}
	q := dto.ListMineQuery{UserID: userID, CondominiumIDs: condoIDs}
	var n int64
	err := s.unreadOnly(s.mineScope(q).WithContext(ctx), userID).Count(&n).Error
	return n, err
}

// MarkRead idempoten; waktu baca pertama dipertahankan.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.NotificationRead{
			NotificationReadNotificationID: id,
			NotificationReadUserID:         userID,
			NotificationReadAt:             s.Clock.Now(),
		}).Error
}

func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notification_read_notification_id = ?", id).Delete(&model.NotificationRead{}).Error; err != nil {
			return err
		}
		res := tx.Where("notification_id = ?", id).Delete(&model.Notification{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.NotFound("notification not found")
		}
		return nil
	})
}
