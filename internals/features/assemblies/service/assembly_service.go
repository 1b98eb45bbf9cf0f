package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	"condominio_backend/internals/features/assemblies/dto"
	"condominio_backend/internals/features/assemblies/model"
	condoModel "condominio_backend/internals/features/condominiums/model"
	helper "condominio_backend/internals/helpers"
)

const defaultRequiredQuorum = 50.0

type AssemblyService struct {
	DB    *gorm.DB
	Clock helper.Clock
	log   zerolog.Logger
}

func NewAssemblyService(db *gorm.DB, clock helper.Clock) *AssemblyService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &AssemblyService{DB: db, Clock: clock, log: configs.WithComponent("assemblies")}
}

// =======================================================
// ASSEMBLY CRUD
// =======================================================

func (s *AssemblyService) CreateAssembly(ctx context.Context, req dto.CreateAssemblyRequest, actor *uuid.UUID) (*model.Assembly, error) {
	quorum := defaultRequiredQuorum
	if req.RequiredQuorum != nil {
		quorum = *req.RequiredQuorum
	}
	asmType := strings.TrimSpace(req.AssemblyType)
	if asmType == "" {
		asmType = model.AssemblyTypeOrdinary
	}

	var out model.Assembly
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var condo condoModel.Condominium
		if err := tx.Select("condominium_id").First(&condo, "condominium_id = ?", req.CondominiumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("condominium not found")
			}
			return err
		}

		// nomor urut per condominium = max + 1
		var last int
		if err := tx.Model(&model.Assembly{}).
			Where("assembly_condominium_id = ?", req.CondominiumID).
			Select("COALESCE(MAX(assembly_number), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		out = model.Assembly{
			AssemblyCondominiumID:  req.CondominiumID,
			AssemblyNumber:         last + 1,
			AssemblyTitle:          strings.TrimSpace(req.Title),
			AssemblyType:           asmType,
			AssemblyScheduledDate:  req.ScheduledDate.UTC(),
			AssemblyLocation:       trimPtr(req.Location),
			AssemblyAgenda:         trimPtr(req.Agenda),
			AssemblyRequiredQuorum: quorum,
			AssemblyStatus:         model.AssemblyStatusScheduled,
			AssemblyCreatedBy:      actor,
		}
		if err := tx.Create(&out).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("another assembly was created at the same time, retry the request")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssemblyService) ListAssemblies(ctx context.Context, q dto.ListAssemblyQuery) ([]model.Assembly, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Assembly{}).
		Where("assembly_condominium_id = ?", q.CondominiumID)
	if q.Status != nil {
		tx = tx.Where("assembly_status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Assembly
	list := tx.Order("assembly_scheduled_date DESC, assembly_number DESC")
	if q.Limit > 0 {
		list = list.Offset(q.Offset).Limit(q.Limit)
	}
	if err := list.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindAssembly dipakai controller untuk cek akses condominium sebelum mutasi.
func (s *AssemblyService) FindAssembly(ctx context.Context, id uuid.UUID) (*model.Assembly, error) {
	var a model.Assembly
	if err := s.DB.WithContext(ctx).First(&a, "assembly_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("assembly not found")
		}
		return nil, err
	}
	return &a, nil
}

// GetAssemblyDetail menurunkan quorum dari kehadiran lalu menyimpannya bila berubah.
func (s *AssemblyService) GetAssemblyDetail(ctx context.Context, id uuid.UUID) (*dto.AssemblyDetail, error) {
	a, err := s.FindAssembly(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	var attendees, units int64
	if err := db.Model(&model.AssemblyAttendance{}).
		Where("attendance_assembly_id = ? AND attendance_attended = ?", a.AssemblyID, true).
		Count(&attendees).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&condoModel.Property{}).
		Where("property_condominium_id = ?", a.AssemblyCondominiumID).
		Count(&units).Error; err != nil {
		return nil, err
	}

	quorum := ComputeQuorum(attendees, units)
	if quorum != a.AssemblyCurrentQuorum {
		if err := db.Model(&model.Assembly{}).
			Where("assembly_id = ?", a.AssemblyID).
			Update("assembly_current_quorum", quorum).Error; err != nil {
			return nil, err
		}
		a.AssemblyCurrentQuorum = quorum
	}

	votes, err := s.ListVotes(ctx, a.AssemblyID)
	if err != nil {
		return nil, err
	}
	return &dto.AssemblyDetail{
		Assembly:      *a,
		TotalUnits:    units,
		AttendeeCount: attendees,
		QuorumReached: quorum >= a.AssemblyRequiredQuorum,
		Votes:         votes,
	}, nil
}

func (s *AssemblyService) UpdateAssembly(ctx context.Context, id uuid.UUID, req dto.UpdateAssemblyRequest) (*model.Assembly, error) {
	var out model.Assembly
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockAssembly(tx, id)
		if err != nil {
			return err
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("a completed assembly cannot be modified")
		}

		if req.Title != nil {
			if t := strings.TrimSpace(*req.Title); t != "" {
				a.AssemblyTitle = t
			}
		}
		if req.AssemblyType != nil {
			a.AssemblyType = *req.AssemblyType
		}
		if req.ScheduledDate != nil {
			a.AssemblyScheduledDate = req.ScheduledDate.UTC()
		}
		if req.Location != nil {
			a.AssemblyLocation = trimPtr(req.Location)
		}
		if req.Agenda != nil {
			a.AssemblyAgenda = trimPtr(req.Agenda)
		}
		if req.RequiredQuorum != nil {
			a.AssemblyRequiredQuorum = *req.RequiredQuorum
		}
		if req.Status != nil {
			if !req.Status.Valid() {
				return helper.Validation("invalid assembly status %q", *req.Status)
			}
			s.applyStatus(&a, *req.Status)
		}

		if err := tx.Model(&model.Assembly{}).Where("assembly_id = ?", id).Updates(map[string]any{
			"assembly_title":           a.AssemblyTitle,
			"assembly_type":            a.AssemblyType,
			"assembly_scheduled_date":  a.AssemblyScheduledDate,
			"assembly_location":        a.AssemblyLocation,
			"assembly_agenda":          a.AssemblyAgenda,
			"assembly_required_quorum": a.AssemblyRequiredQuorum,
			"assembly_status":          a.AssemblyStatus,
			"assembly_started_at":      a.AssemblyStartedAt,
			"assembly_ended_at":        a.AssemblyEndedAt,
		}).Error; err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// applyStatus: started_at hanya diisi sekali saat pertama kali in_progress,
// ended_at saat completed.
func (s *AssemblyService) applyStatus(a *model.Assembly, next model.AssemblyStatus) {
	now := s.Clock.Now()
	switch next {
	case model.AssemblyStatusInProgress:
		if a.AssemblyStartedAt == nil {
			a.AssemblyStartedAt = &now
		}
	case model.AssemblyStatusCompleted:
		if a.AssemblyStartedAt == nil {
			a.AssemblyStartedAt = &now
		}
		if a.AssemblyEndedAt == nil {
			a.AssemblyEndedAt = &now
		}
	}
	a.AssemblyStatus = next
}

func (s *AssemblyService) UpdateMinutes(ctx context.Context, id uuid.UUID, minutes string) (*model.Assembly, error) {
	var out model.Assembly
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockAssembly(tx, id)
		if err != nil {
			return err
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("minutes of a completed assembly cannot be modified")
		}
		a.AssemblyMinutes = trimPtr(&minutes)
		if err := tx.Model(&model.Assembly{}).Where("assembly_id = ?", id).
			Update("assembly_minutes", a.AssemblyMinutes).Error; err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssembly menghapus assembly beserta vote, suara, dan kehadirannya.
func (s *AssemblyService) DeleteAssembly(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockAssembly(tx, id); err != nil {
			return err
		}
		voteIDs := tx.Model(&model.Vote{}).Select("vote_id").Where("vote_assembly_id = ?", id)
		if err := tx.Where("vote_record_vote_id IN (?)", voteIDs).Delete(&model.VoteRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vote_assembly_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attendance_assembly_id = ?", id).Delete(&model.AssemblyAttendance{}).Error; err != nil {
			return err
		}
		return tx.Where("assembly_id = ?", id).Delete(&model.Assembly{}).Error
	})
}

func lockAssembly(tx *gorm.DB, id uuid.UUID) (model.Assembly, error) {
	var a model.Assembly
	if err := helper.ForUpdate(tx).First(&a, "assembly_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a, helper.NotFound("assembly not found")
		}
		return a, err
	}
	return a, nil
}

// residentInCondominium memastikan resident aktif milik condominium yang sama.
func residentInCondominium(tx *gorm.DB, residentID, condominiumID uuid.UUID) error {
	var n int64
	if err := tx.Model(&condoModel.Resident{}).
		Where("resident_id = ? AND resident_condominium_id = ?", residentID, condominiumID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.Validation("resident does not belong to this condominium")
	}
	return nil
}

// ResidentOwnedBy: true bila resident terhubung ke akun user tersebut.
func (s *AssemblyService) ResidentOwnedBy(ctx context.Context, residentID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&condoModel.Resident{}).
		Where("resident_id = ? AND resident_user_id = ?", residentID, userID).
		Count(&n).Error
	return n > 0, err
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
