package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/documents/dto"
	"condominio_backend/internals/features/documents/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

func attachmentFolder(condoID uuid.UUID, entityType string, entityID uuid.UUID) string {
	return fmt.Sprintf("condominiums/%s/attachments/%s/%s", condoID, entityType, entityID)
}

// EntityCondominium mengembalikan kondominium pemilik resident/property.
func (s *DocumentService) EntityCondominium(ctx context.Context, entityType string, entityID uuid.UUID) (uuid.UUID, error) {
	db := s.DB.WithContext(ctx)
	switch strings.ToLower(strings.TrimSpace(entityType)) {
	case model.AttachmentEntityResident:
		var r condoModel.Resident
		if err := db.Select("resident_condominium_id").First(&r, "resident_id = ?", entityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, helper.NotFound("resident not found")
			}
			return uuid.Nil, err
		}
		return r.ResidentCondominiumID, nil
	case model.AttachmentEntityProperty:
		var p condoModel.Property
		if err := db.Select("property_condominium_id").First(&p, "property_id = ?", entityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, helper.NotFound("property not found")
			}
			return uuid.Nil, err
		}
		return p.PropertyCondominiumID, nil
	default:
		return uuid.Nil, helper.Validation("entity_type must be resident or property")
	}
}

// UploadAttachment: entity harus milik kondominium yang sama.
func (s *DocumentService) UploadAttachment(ctx context.Context, condoID uuid.UUID, req dto.UploadAttachmentRequest, fh *multipart.FileHeader, actor *uuid.UUID) (*model.DocumentAttachment, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	entityID, err := uuid.Parse(strings.TrimSpace(req.EntityID))
	if err != nil {
		return nil, helper.Validation("invalid entity_id")
	}
	entityType := strings.ToLower(strings.TrimSpace(req.EntityType))
	owner, err := s.EntityCondominium(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if owner != condoID {
		return nil, helper.NotFound("%s not found in this condominium", entityType)
	}

	up, err := oss.UploadFile(ctx, s.Store, attachmentFolder(condoID, entityType, entityID), fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	row := model.DocumentAttachment{
		DocumentAttachmentCondominiumID: condoID,
		DocumentAttachmentEntityType:    entityType,
		DocumentAttachmentEntityID:      entityID,
		DocumentAttachmentTitle:         strings.TrimSpace(req.Title),
		DocumentAttachmentDescription:   trimPtr(req.Description),
		DocumentAttachmentObjectKey:     up.Key,
		DocumentAttachmentFileName:      up.FileName,
		DocumentAttachmentFileSize:      up.Size,
		DocumentAttachmentMimeType:      &up.ContentType,
		DocumentAttachmentUploadedBy:    actor,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	return &row, nil
}

func (s *DocumentService) FindAttachment(ctx context.Context, id uuid.UUID) (*model.DocumentAttachment, error) {
	var row model.DocumentAttachment
	if err := s.DB.WithContext(ctx).First(&row, "document_attachment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("attachment not found")
		}
		return nil, err
	}
	return &row, nil
}

// ListAttachments: terbaru dulu, masing-masing dengan presigned URL.
func (s *DocumentService) ListAttachments(ctx context.Context, entityType string, entityID uuid.UUID) ([]dto.AttachmentResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	var rows []model.DocumentAttachment
	if err := s.DB.WithContext(ctx).
		Where("document_attachment_entity_type = ? AND document_attachment_entity_id = ?", strings.ToLower(strings.TrimSpace(entityType)), entityID).
		Order("document_attachment_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	exp := s.Clock.Now().Add(presignTTL)
	out := make([]dto.AttachmentResponse, 0, len(rows))
	for _, r := range rows {
		url, err := s.Store.PresignGet(ctx, r.DocumentAttachmentObjectKey, presignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign attachment: %w", err)
		}
		out = append(out, dto.AttachmentResponse{DocumentAttachment: r, DownloadURL: url, ExpiresAt: exp})
	}
	return out, nil
}

// DeleteAttachment: baris dihapus dulu, object dibuang best-effort.
func (s *DocumentService) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	row, err := s.FindAttachment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&model.DocumentAttachment{}, "document_attachment_id = ?", id).Error; err != nil {
		return err
	}
	s.removeObject(ctx, row.DocumentAttachmentObjectKey)
	return nil
}
