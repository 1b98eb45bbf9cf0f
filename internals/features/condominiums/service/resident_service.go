package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/features/condominiums/dto"
	"condominio_backend/internals/features/condominiums/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

var hundred = decimal.NewFromInt(100)

// ResidentDetail: resident beserta relasi propertinya.
type ResidentDetail struct {
	model.Resident
	Properties []model.PropertyResident `json:"properties"`
}

func (s *CondominiumService) CreateResident(ctx context.Context, condoID uuid.UUID, req dto.CreateResidentRequest) (*model.Resident, error) {
	if _, err := s.GetCondominium(ctx, condoID); err != nil {
		return nil, err
	}
	row := model.Resident{
		ResidentCondominiumID:  condoID,
		ResidentUserID:         req.UserID,
		ResidentFullName:       strings.TrimSpace(req.FullName),
		ResidentEmail:          lowerPtr(req.Email),
		ResidentPhone:          trimPtr(req.Phone),
		ResidentDocumentType:   trimPtr(req.DocumentType),
		ResidentDocumentNumber: trimPtr(req.DocumentNumber),
		ResidentIsActive:       true,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, condoID)
	return &row, nil
}

func (s *CondominiumService) FindResident(ctx context.Context, id uuid.UUID) (*model.Resident, error) {
	var row model.Resident
	if err := s.DB.WithContext(ctx).First(&row, "resident_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("resident not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *CondominiumService) ResidentDetail(ctx context.Context, id uuid.UUID) (*ResidentDetail, error) {
	row, err := s.FindResident(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &ResidentDetail{Resident: *row}
	if err := s.DB.WithContext(ctx).
		Where("property_resident_resident_id = ?", id).
		Order("property_resident_is_primary DESC, property_resident_created_at ASC").
		Find(&out.Properties).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CondominiumService) ListResidents(ctx context.Context, q dto.ListResidentQuery) ([]model.Resident, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Resident{}).Where("resident_condominium_id = ?", q.CondominiumID)
	if q.IsActive != nil {
		tx = tx.Where("resident_is_active = ?", *q.IsActive)
	}
	if q.PropertyID != nil {
		tx = tx.Where("resident_id IN (?)", s.DB.Model(&model.PropertyResident{}).
			Select("property_resident_resident_id").
			Where("property_resident_property_id = ?", *q.PropertyID))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(resident_full_name) LIKE ? OR LOWER(COALESCE(resident_email, '')) LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Resident
	page := tx.Order("resident_full_name ASC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *CondominiumService) UpdateResident(ctx context.Context, id uuid.UUID, req dto.UpdateResidentRequest) (*model.Resident, error) {
	row, err := s.FindResident(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		row.ResidentFullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		row.ResidentEmail = lowerPtr(req.Email)
	}
	setPtr(&row.ResidentPhone, req.Phone)
	setPtr(&row.ResidentDocumentType, req.DocumentType)
	setPtr(&row.ResidentDocumentNumber, req.DocumentNumber)
	if req.UserID != nil {
		row.ResidentUserID = req.UserID
	}
	if req.IsActive != nil {
		row.ResidentIsActive = *req.IsActive
	}
	if err := s.DB.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, row.ResidentCondominiumID)
	return row, nil
}

func (s *CondominiumService) DeleteResident(ctx context.Context, id uuid.UUID) error {
	var photo *string
	var condoID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Resident
		if err := tx.First(&row, "resident_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("resident not found")
			}
			return err
		}
		if err := tx.Where("property_resident_resident_id = ?", id).Delete(&model.PropertyResident{}).Error; err != nil {
			return err
		}
		photo, condoID = row.ResidentPhotoKey, row.ResidentCondominiumID
		return tx.Delete(&row).Error
	})
	if err != nil {
		return err
	}
	if photo != nil {
		s.removeObject(ctx, *photo)
	}
	s.invalidateDashboard(ctx, condoID)
	return nil
}

// LinkProperty menghubungkan resident ke properti di condominium yang sama.
// is_primary=true mencabut flag primary relasi lain milik properti itu.
func (s *CondominiumService) LinkProperty(ctx context.Context, residentID uuid.UUID, req dto.LinkPropertyRequest) (*model.PropertyResident, error) {
	relation := strings.ToLower(strings.TrimSpace(req.Relation))
	if relation == "" {
		relation = model.RelationOwner
	}
	var ownership decimal.NullDecimal
	if req.Ownership != nil {
		if req.Ownership.IsNegative() || req.Ownership.GreaterThan(hundred) {
			return nil, helper.Validation("ownership percentage must be between 0 and 100")
		}
		ownership = decimal.NullDecimal{Decimal: *req.Ownership, Valid: true}
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, helper.Validation("end_date must not be before start_date")
	}

	var link model.PropertyResident
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res model.Resident
		if err := tx.First(&res, "resident_id = ?", residentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("resident not found")
			}
			return err
		}
		var prop model.Property
		if err := tx.First(&prop, "property_id = ?", req.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("property not found")
			}
			return err
		}
		if prop.PropertyCondominiumID != res.ResidentCondominiumID {
			return helper.Validation("property and resident belong to different condominiums")
		}
		if req.IsPrimary {
			if err := tx.Model(&model.PropertyResident{}).
				Where("property_resident_property_id = ?", prop.PropertyID).
				Update("property_resident_is_primary", false).Error; err != nil {
				return err
			}
		}
		link = model.PropertyResident{
			PropertyResidentPropertyID: prop.PropertyID,
			PropertyResidentResidentID: res.ResidentID,
			PropertyResidentRelation:   relation,
			PropertyResidentOwnership:  ownership,
			PropertyResidentIsPrimary:  req.IsPrimary,
			PropertyResidentStartDate:  req.StartDate,
			PropertyResidentEndDate:    req.EndDate,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("resident is already linked to this property")
		}
		return nil, err
	}
	return &link, nil
}

func (s *CondominiumService) UnlinkProperty(ctx context.Context, residentID, propertyID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("property_resident_resident_id = ? AND property_resident_property_id = ?", residentID, propertyID).
		Delete(&model.PropertyResident{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("property link not found")
	}
	return nil
}

func (s *CondominiumService) UploadResidentPhoto(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*model.Resident, error) {
	if s.Store == nil {
		return nil, helper.Validation("object storage is not configured")
	}
	row, err := s.FindResident(ctx, id)
	if err != nil {
		return nil, err
	}
	folder := fmt.Sprintf("condominiums/%s/residents/%s", row.ResidentCondominiumID, row.ResidentID)
	up, err := oss.UploadImageAsWebP(ctx, s.Store, folder, fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	// salin nilainya: Update menulis ulang field milik row
	var oldKey string
	if row.ResidentPhotoKey != nil {
		oldKey = *row.ResidentPhotoKey
	}
	if err := s.DB.WithContext(ctx).Model(row).Update("resident_photo_key", up.Key).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	newKey := up.Key
	row.ResidentPhotoKey = &newKey
	if oldKey != "" && oldKey != newKey {
		s.removeObject(ctx, oldKey)
	}
	return row, nil
}
