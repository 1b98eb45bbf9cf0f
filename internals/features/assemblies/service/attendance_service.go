package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"condominio_backend/internals/features/assemblies/dto"
	"condominio_backend/internals/features/assemblies/model"
	helper "condominio_backend/internals/helpers"
)

// RecordAttendance: upsert per (assembly, resident). confirmed_at diisi hanya
// saat berubah menjadi hadir, dan dikosongkan saat kembali tidak hadir.
func (s *AssemblyService) RecordAttendance(ctx context.Context, assemblyID uuid.UUID, req dto.AttendanceRequest) (*model.AssemblyAttendance, error) {
	var out model.AssemblyAttendance
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockAssembly(tx, assemblyID)
		if err != nil {
			return err
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("attendance of a completed assembly cannot be modified")
		}
		if err := residentInCondominium(tx, req.ResidentID, a.AssemblyCondominiumID); err != nil {
			return err
		}

		now := s.Clock.Now()
		var att model.AssemblyAttendance
		err = tx.Where("attendance_assembly_id = ? AND attendance_resident_id = ?", assemblyID, req.ResidentID).
			First(&att).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			att = model.AssemblyAttendance{
				AttendanceAssemblyID:    assemblyID,
				AttendanceResidentID:    req.ResidentID,
				AttendanceAttended:      req.Attended,
				AttendanceRepresentedBy: trimPtr(req.RepresentedBy),
				AttendanceNotes:         trimPtr(req.Notes),
			}
			if req.Attended {
				att.AttendanceConfirmedAt = &now
			}
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
			out = att
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case req.Attended && !att.AttendanceAttended:
			att.AttendanceConfirmedAt = &now
		case !req.Attended:
			att.AttendanceConfirmedAt = nil
		}
		att.AttendanceAttended = req.Attended
		if req.RepresentedBy != nil {
			att.AttendanceRepresentedBy = trimPtr(req.RepresentedBy)
		}
		if req.Notes != nil {
			att.AttendanceNotes = trimPtr(req.Notes)
		}
		if err := tx.Model(&model.AssemblyAttendance{}).
			Where("attendance_id = ?", att.AttendanceID).
			Updates(map[string]any{
				"attendance_attended":       att.AttendanceAttended,
				"attendance_confirmed_at":   att.AttendanceConfirmedAt,
				"attendance_represented_by": att.AttendanceRepresentedBy,
				"attendance_notes":          att.AttendanceNotes,
			}).Error; err != nil {
			return err
		}
		out = att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssemblyService) ListAttendance(ctx context.Context, assemblyID uuid.UUID) ([]model.AssemblyAttendance, error) {
	var rows []model.AssemblyAttendance
	err := s.DB.WithContext(ctx).
		Where("attendance_assembly_id = ?", assemblyID).
		Order("attendance_created_at ASC").
		Find(&rows).Error
	return rows, err
}
