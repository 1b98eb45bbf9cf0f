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
	invoiceModel "condominio_backend/internals/features/finance/invoices/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

/* =======================================================
   BLOCKS
======================================================= */

func (s *CondominiumService) CreateBlock(ctx context.Context, condoID uuid.UUID, req dto.BlockRequest) (*model.Block, error) {
	if _, err := s.GetCondominium(ctx, condoID); err != nil {
		return nil, err
	}
	row := model.Block{
		BlockCondominiumID: condoID,
		BlockName:          strings.TrimSpace(req.Name),
		BlockDescription:   trimPtr(req.Description),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("block %q already exists", row.BlockName)
		}
		return nil, err
	}
	return &row, nil
}

func (s *CondominiumService) ListBlocks(ctx context.Context, condoID uuid.UUID) ([]model.Block, error) {
	var rows []model.Block
	if err := s.DB.WithContext(ctx).
		Where("block_condominium_id = ?", condoID).
		Order("block_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CondominiumService) FindBlock(ctx context.Context, id uuid.UUID) (*model.Block, error) {
	var row model.Block
	if err := s.DB.WithContext(ctx).First(&row, "block_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("block not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *CondominiumService) UpdateBlock(ctx context.Context, id uuid.UUID, req dto.UpdateBlockRequest) (*model.Block, error) {
	row, err := s.FindBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		row.BlockName = strings.TrimSpace(*req.Name)
	}
	setPtr(&row.BlockDescription, req.Description)
	if err := s.DB.WithContext(ctx).Save(row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("block %q already exists", row.BlockName)
		}
		return nil, err
	}
	return row, nil
}

// DeleteBlock ditolak selama masih ada properti di blok tersebut.
func (s *CondominiumService) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Property{}).Where("property_block_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Conflict("block still has %d properties", n)
		}
		res := tx.Where("block_id = ?", id).Delete(&model.Block{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.NotFound("block not found")
		}
		return nil
	})
}

/* =======================================================
   PROPERTIES
======================================================= */

func (s *CondominiumService) ensureBlockInCondominium(tx *gorm.DB, condoID uuid.UUID, blockID *uuid.UUID) error {
	if blockID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&model.Block{}).
		Where("block_id = ? AND block_condominium_id = ?", *blockID, condoID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.Validation("block does not belong to this condominium")
	}
	return nil
}

func normalizePropertyType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return model.PropertyTypeApartment
	}
	return t
}

func nullDecimal(v *decimal.Decimal) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	if v.IsNegative() {
		return decimal.NullDecimal{}, helper.Validation("area cannot be negative")
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}, nil
}

func (s *CondominiumService) CreateProperty(ctx context.Context, condoID uuid.UUID, req dto.CreatePropertyRequest) (*model.Property, error) {
	area, err := nullDecimal(req.Area)
	if err != nil {
		return nil, err
	}
	row := model.Property{
		PropertyCondominiumID: condoID,
		PropertyBlockID:       req.BlockID,
		PropertyCode:          strings.ToUpper(strings.TrimSpace(req.Code)),
		PropertyType:          normalizePropertyType(req.Type),
		PropertyArea:          area,
		PropertyDescription:   trimPtr(req.Description),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Condominium{}).Where("condominium_id = ?", condoID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helper.NotFound("condominium not found")
		}
		if err := s.ensureBlockInCondominium(tx, condoID, req.BlockID); err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("property code %q already exists", row.PropertyCode)
		}
		return nil, err
	}
	s.invalidateDashboard(ctx, condoID)
	return &row, nil
}

func (s *CondominiumService) FindProperty(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var row model.Property
	if err := s.DB.WithContext(ctx).First(&row, "property_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("property not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *CondominiumService) ListProperties(ctx context.Context, q dto.ListPropertyQuery) ([]model.Property, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Property{}).Where("property_condominium_id = ?", q.CondominiumID)
	if q.BlockID != nil {
		tx = tx.Where("property_block_id = ?", *q.BlockID)
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		tx = tx.Where("LOWER(property_code) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Property
	page := tx.Order("property_code ASC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *CondominiumService) UpdateProperty(ctx context.Context, id uuid.UUID, req dto.UpdatePropertyRequest) (*model.Property, error) {
	var out model.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&out, "property_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("property not found")
			}
			return err
		}
		if req.Code != nil {
			out.PropertyCode = strings.ToUpper(strings.TrimSpace(*req.Code))
		}
		if req.Type != nil {
			out.PropertyType = normalizePropertyType(*req.Type)
		}
		switch {
		case req.ClearBlock:
			out.PropertyBlockID = nil
		case req.BlockID != nil:
			if err := s.ensureBlockInCondominium(tx, out.PropertyCondominiumID, req.BlockID); err != nil {
				return err
			}
			out.PropertyBlockID = req.BlockID
		}
		if req.Area != nil {
			area, err := nullDecimal(req.Area)
			if err != nil {
				return err
			}
			out.PropertyArea = area
		}
		setPtr(&out.PropertyDescription, req.Description)
		return tx.Save(&out).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("property code %q already exists", out.PropertyCode)
		}
		return nil, err
	}
	return &out, nil
}

// DeleteProperty: properti yang sudah punya invoice tidak boleh dihapus.
func (s *CondominiumService) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	var photo *string
	var condoID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Property
		if err := tx.First(&row, "property_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("property not found")
			}
			return err
		}
		var n int64
		if err := tx.Model(&invoiceModel.Invoice{}).Where("invoice_property_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Conflict("property has %d invoices and cannot be deleted", n)
		}
		if err := tx.Where("property_resident_property_id = ?", id).Delete(&model.PropertyResident{}).Error; err != nil {
			return err
		}
		photo, condoID = row.PropertyPhotoKey, row.PropertyCondominiumID
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

func (s *CondominiumService) UploadPropertyPhoto(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*model.Property, error) {
	if s.Store == nil {
		return nil, helper.Validation("object storage is not configured")
	}
	row, err := s.FindProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	folder := fmt.Sprintf("condominiums/%s/properties/%s", row.PropertyCondominiumID, row.PropertyID)
	up, err := oss.UploadImageAsWebP(ctx, s.Store, folder, fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	// salin nilainya: Update menulis ulang field milik row
	var oldKey string
	if row.PropertyPhotoKey != nil {
		oldKey = *row.PropertyPhotoKey
	}
	if err := s.DB.WithContext(ctx).Model(row).Update("property_photo_key", up.Key).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	newKey := up.Key
	row.PropertyPhotoKey = &newKey
	if oldKey != "" && oldKey != newKey {
		s.removeObject(ctx, oldKey)
	}
	return row, nil
}
