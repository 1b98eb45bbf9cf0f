package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/meetings/dto"
	"condominio_backend/internals/features/meetings/model"
	helper "condominio_backend/internals/helpers"
)

type MeetingService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewMeetingService(db *gorm.DB, clock helper.Clock) *MeetingService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &MeetingService{DB: db, Clock: clock, log: configs.WithComponent("meetings")}
}

func (s *MeetingService) CreateMeeting(ctx context.Context, condoID uuid.UUID, req dto.CreateMeetingRequest, actor *uuid.UUID) (*model.Meeting, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&condoModel.Condominium{}).Where("condominium_id = ?", condoID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helper.NotFound("condominium not found")
	}
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = model.MeetingTypeGeneral
	}
	row := model.Meeting{
		MeetingCondominiumID: condoID,
		MeetingTitle:         strings.TrimSpace(req.Title),
		MeetingType:          typ,
		MeetingScheduledDate: req.ScheduledDate,
		MeetingLocation:      trimPtr(req.Location),
		MeetingAgenda:        trimPtr(req.Agenda),
		MeetingCreatedBy:     actor,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	s.log.Info().Str("meeting_id", row.MeetingID.String()).Msg("meeting scheduled")
	return &row, nil
}

func (s *MeetingService) FindMeeting(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	var row model.Meeting
	if err := s.DB.WithContext(ctx).First(&row, "meeting_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("meeting not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *MeetingService) ListMeetings(ctx context.Context, q dto.ListMeetingQuery) ([]model.Meeting, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Meeting{}).Where("meeting_condominium_id = ?", q.CondominiumID)
	if q.IsCompleted != nil {
		tx = tx.Where("meeting_is_completed = ?", *q.IsCompleted)
	}
	if q.From != nil {
		tx = tx.Where("meeting_scheduled_date >= ?", helper.DateOnly(*q.From))
	}
	if q.To != nil {
		tx = tx.Where("meeting_scheduled_date < ?", helper.DateOnly(*q.To).AddDate(0, 0, 1))
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Meeting
	page := tx.Order("meeting_scheduled_date DESC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *MeetingService) MeetingDetail(ctx context.Context, id uuid.UUID) (*dto.MeetingDetail, error) {
	row, err := s.FindMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.MeetingDetail{Meeting: *row}
	if out.Attendances, err = s.ListAttendance(ctx, id); err != nil {
		return nil, err
	}
	out.AttendedCount = lo.CountBy(out.Attendances, func(a model.MeetingAttendance) bool {
		return a.MeetingAttendanceAttended
	})
	return out, nil
}

func (s *MeetingService) UpdateMeeting(ctx context.Context, id uuid.UUID, req dto.UpdateMeetingRequest) (*model.Meeting, error) {
	row, err := s.FindMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		row.MeetingTitle = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		row.MeetingType = strings.TrimSpace(*req.Type)
	}
	if req.ScheduledDate != nil {
		row.MeetingScheduledDate = *req.ScheduledDate
	}
	if req.Location != nil {
		row.MeetingLocation = trimPtr(req.Location)
	}
	if req.Agenda != nil {
		row.MeetingAgenda = trimPtr(req.Agenda)
	}
	if req.Minutes != nil {
		row.MeetingMinutes = trimPtr(req.Minutes)
	}
	if req.IsCompleted != nil {
		row.MeetingIsCompleted = *req.IsCompleted
	}
	if err := s.DB.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_attendance_meeting_id = ?", id).Delete(&model.MeetingAttendance{}).Error; err != nil {
			return err
		}
		res := tx.Where("meeting_id = ?", id).Delete(&model.Meeting{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.NotFound("meeting not found")
		}
		return nil
	})
}

// RecordAttendance: upsert per (meeting, resident) lewat ON CONFLICT.
func (s *MeetingService) RecordAttendance(ctx context.Context, meetingID uuid.UUID, req dto.MeetingAttendanceRequest) (*model.MeetingAttendance, error) {
	var out model.MeetingAttendance
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Meeting
		if err := tx.First(&m, "meeting_id = ?", meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("meeting not found")
			}
			return err
		}
		var n int64
		if err := tx.Model(&condoModel.Resident{}).
			Where("resident_id = ? AND resident_condominium_id = ?", req.ResidentID, m.MeetingCondominiumID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helper.Validation("resident does not belong to this condominium")
		}

		row := model.MeetingAttendance{
			MeetingAttendanceMeetingID:  meetingID,
			MeetingAttendanceResidentID: req.ResidentID,
			MeetingAttendanceAttended:   req.Attended,
			MeetingAttendanceNotes:      trimPtr(req.Notes),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meeting_attendance_meeting_id"}, {Name: "meeting_attendance_resident_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"meeting_attendance_attended",
				"meeting_attendance_notes",
				"meeting_attendance_updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		// id pada row bisa milik insert yang batal; baca ulang baris sebenarnya
		return tx.Where("meeting_attendance_meeting_id = ? AND meeting_attendance_resident_id = ?", meetingID, req.ResidentID).
			First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MeetingService) ListAttendance(ctx context.Context, meetingID uuid.UUID) ([]model.MeetingAttendance, error) {
	var rows []model.MeetingAttendance
	err := s.DB.WithContext(ctx).
		Where("meeting_attendance_meeting_id = ?", meetingID).
		Order("meeting_attendance_created_at ASC").
		Find(&rows).Error
	return rows, err
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
