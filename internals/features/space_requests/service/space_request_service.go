package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/space_requests/dto"
	"condominio_backend/internals/features/space_requests/model"
	helper "condominio_backend/internals/helpers"
)

// Requester: pemanggil. Non-admin hanya boleh menyentuh permohonan
// milik resident yang tertaut ke user-nya.
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type SpaceRequestService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewSpaceRequestService(db *gorm.DB, clock helper.Clock) *SpaceRequestService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &SpaceRequestService{DB: db, Clock: clock, log: configs.WithComponent("space_requests")}
}

func (s *SpaceRequestService) CreateSpaceRequest(ctx context.Context, condoID uuid.UUID, req dto.CreateSpaceRequestRequest, who Requester) (*model.SpaceRequest, error) {
	var res condoModel.Resident
	err := s.DB.WithContext(ctx).
		First(&res, "resident_id = ? AND resident_condominium_id = ?", req.ResidentID, condoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.Validation("resident not found or belongs to a different condominium")
		}
		return nil, err
	}
	if !who.IsAdmin && !ownedBy(res, who.UserID) {
		return nil, helper.Forbidden("you can only create requests for yourself")
	}
	space := strings.TrimSpace(req.SpaceName)
	if space == "" {
		return nil, helper.Validation("space_name is required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, helper.Validation("end_time must be after start_time")
	}

	row := model.SpaceRequest{
		SpaceRequestCondominiumID: condoID,
		SpaceRequestResidentID:    res.ResidentID,
		SpaceRequestSpaceName:     space,
		SpaceRequestRequestDate:   helper.DateOnly(req.RequestDate),
		SpaceRequestStartTime:     req.StartTime.UTC(),
		SpaceRequestEndTime:       req.EndTime.UTC(),
		SpaceRequestPurpose:       trimPtr(req.Purpose),
		SpaceRequestStatus:        model.SpaceRequestStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	s.log.Info().Str("space_request_id", row.SpaceRequestID.String()).Str("space", space).Msg("space request created")
	return &row, nil
}

func (s *SpaceRequestService) FindSpaceRequest(ctx context.Context, id uuid.UUID) (*model.SpaceRequest, error) {
	var row model.SpaceRequest
	if err := s.DB.WithContext(ctx).First(&row, "space_request_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("space request not found")
		}
		return nil, err
	}
	return &row, nil
}

// GetSpaceRequest: non-admin hanya melihat permohonannya sendiri.
func (s *SpaceRequestService) GetSpaceRequest(ctx context.Context, id uuid.UUID, who Requester) (*model.SpaceRequest, error) {
	row, err := s.FindSpaceRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if who.IsAdmin {
		return row, nil
	}
	owns, err := s.isOwner(ctx, row.SpaceRequestResidentID, who.UserID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, helper.Forbidden("access denied to this request")
	}
	return row, nil
}

func (s *SpaceRequestService) ListSpaceRequests(ctx context.Context, q dto.ListSpaceRequestQuery, who Requester) ([]model.SpaceRequest, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.SpaceRequest{}).Where("space_request_condominium_id = ?", q.CondominiumID)
	if !who.IsAdmin {
		own := s.DB.Model(&condoModel.Resident{}).Select("resident_id").Where("resident_user_id = ?", who.UserID)
		tx = tx.Where("space_request_resident_id IN (?)", own)
	}
	if q.Status != nil {
		tx = tx.Where("space_request_status = ?", strings.ToLower(strings.TrimSpace(*q.Status)))
	}
	if name := strings.TrimSpace(q.SpaceName); name != "" {
		tx = tx.Where("LOWER(space_request_space_name) = ?", strings.ToLower(name))
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.SpaceRequest
	page := tx.Order("space_request_start_time DESC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ApproveSpaceRequest: hanya dari pending, dan tidak boleh bentrok dengan
// permohonan approved lain untuk area yang sama.
func (s *SpaceRequestService) ApproveSpaceRequest(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*model.SpaceRequest, error) {
	var out model.SpaceRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockPending(tx, id)
		if err != nil {
			return err
		}
		var clash int64
		if err := tx.Model(&model.SpaceRequest{}).
			Where("space_request_condominium_id = ? AND space_request_id <> ?", row.SpaceRequestCondominiumID, row.SpaceRequestID).
			Where("space_request_status = ?", model.SpaceRequestStatusApproved).
			Where("LOWER(space_request_space_name) = ?", strings.ToLower(row.SpaceRequestSpaceName)).
			Where("space_request_start_time < ? AND space_request_end_time > ?", row.SpaceRequestEndTime, row.SpaceRequestStartTime).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return helper.Conflict("%s is already booked for that time", row.SpaceRequestSpaceName)
		}

		now := s.Clock.Now()
		row.SpaceRequestStatus = model.SpaceRequestStatusApproved
		row.SpaceRequestReviewedBy = &actor
		row.SpaceRequestReviewedAt = &now
		row.SpaceRequestRejectionReason = nil
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SpaceRequestService) RejectSpaceRequest(ctx context.Context, id uuid.UUID, reason string, actor uuid.UUID) (*model.SpaceRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, helper.Validation("rejection_reason is required")
	}
	var out model.SpaceRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockPending(tx, id)
		if err != nil {
			return err
		}
		now := s.Clock.Now()
		row.SpaceRequestStatus = model.SpaceRequestStatusRejected
		row.SpaceRequestReviewedBy = &actor
		row.SpaceRequestReviewedAt = &now
		row.SpaceRequestRejectionReason = &reason
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSpaceRequest: admin bebas; pemilik hanya selama masih pending.
func (s *SpaceRequestService) DeleteSpaceRequest(ctx context.Context, id uuid.UUID, who Requester) error {
	row, err := s.FindSpaceRequest(ctx, id)
	if err != nil {
		return err
	}
	if !who.IsAdmin {
		owns, err := s.isOwner(ctx, row.SpaceRequestResidentID, who.UserID)
		if err != nil {
			return err
		}
		if !owns {
			return helper.Forbidden("you can only delete your own requests")
		}
		if row.SpaceRequestStatus != model.SpaceRequestStatusPending {
			return helper.Validation("can only delete pending requests")
		}
	}
	return s.DB.WithContext(ctx).Delete(&model.SpaceRequest{}, "space_request_id = ?", id).Error
}

func (s *SpaceRequestService) isOwner(ctx context.Context, residentID, userID uuid.UUID) (bool, error) {
	var res condoModel.Resident
	if err := s.DB.WithContext(ctx).First(&res, "resident_id = ?", residentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return ownedBy(res, userID), nil
}

func ownedBy(res condoModel.Resident, userID uuid.UUID) bool {
	return res.ResidentUserID != nil && *res.ResidentUserID == userID
}

func lockPending(tx *gorm.DB, id uuid.UUID) (model.SpaceRequest, error) {
	var row model.SpaceRequest
	if err := helper.ForUpdate(tx).First(&row, "space_request_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, helper.NotFound("space request not found")
		}
		return row, err
	}
	if row.SpaceRequestStatus != model.SpaceRequestStatusPending {
		return row, helper.Validation("space request is already %s", row.SpaceRequestStatus)
	}
	return row, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
