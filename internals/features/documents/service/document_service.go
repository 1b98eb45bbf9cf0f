package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/documents/dto"
	"condominio_backend/internals/features/documents/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

const presignTTL = 15 * time.Minute

type DocumentService struct {
	DB        *gorm.DB
	Store     oss.ObjectStore
	Clock     helper.Clock
	MaxUpload int64
	log       zerolog.Logger
}

func NewDocumentService(db *gorm.DB, store oss.ObjectStore, clock helper.Clock, maxUpload int64) *DocumentService {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &DocumentService{DB: db, Store: store, Clock: clock, MaxUpload: maxUpload, log: configs.WithComponent("documents")}
}

func (s *DocumentService) requireStore() error {
	if s.Store == nil {
		return helper.Validation("object storage is not configured")
	}
	return nil
}

func folderOf(condoID uuid.UUID) string { return fmt.Sprintf("condominiums/%s/documents", condoID) }

// Upload menyimpan file lalu baris metadata; bila insert gagal object dibuang lagi.
func (s *DocumentService) Upload(ctx context.Context, condoID uuid.UUID, req dto.UploadDocumentRequest, fh *multipart.FileHeader, actor *uuid.UUID) (*model.Document, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&condoModel.Condominium{}).Where("condominium_id = ?", condoID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helper.NotFound("condominium not found")
	}

	up, err := oss.UploadFile(ctx, s.Store, folderOf(condoID), fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	row := model.Document{
		DocumentCondominiumID: condoID,
		DocumentTitle:         strings.TrimSpace(req.Title),
		DocumentDescription:   trimPtr(req.Description),
		DocumentCategory:      lowerPtr(req.Category),
		DocumentObjectKey:     up.Key,
		DocumentFileName:      up.FileName,
		DocumentFileSize:      up.Size,
		DocumentMimeType:      &up.ContentType,
		DocumentVersion:       1,
		DocumentUploadedBy:    actor,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	return &row, nil
}

// NewVersion: baris baru version+1; versi lama tetap tersimpan.
func (s *DocumentService) NewVersion(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader, actor *uuid.UUID) (*model.Document, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	prev, err := s.FindDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	up, err := oss.UploadFile(ctx, s.Store, folderOf(prev.DocumentCondominiumID), fh, s.MaxUpload)
	if err != nil {
		return nil, err
	}
	row := model.Document{
		DocumentCondominiumID:     prev.DocumentCondominiumID,
		DocumentTitle:             prev.DocumentTitle,
		DocumentDescription:       prev.DocumentDescription,
		DocumentCategory:          prev.DocumentCategory,
		DocumentObjectKey:         up.Key,
		DocumentFileName:          up.FileName,
		DocumentFileSize:          up.Size,
		DocumentMimeType:          &up.ContentType,
		DocumentVersion:           prev.DocumentVersion + 1,
		DocumentPreviousVersionID: &prev.DocumentID,
		DocumentUploadedBy:        actor,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		s.removeObject(ctx, up.Key)
		return nil, err
	}
	return &row, nil
}

func (s *DocumentService) FindDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var row model.Document
	if err := s.DB.WithContext(ctx).First(&row, "document_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("document not found")
		}
		return nil, err
	}
	return &row, nil
}

// GetDocument mengembalikan metadata + presigned URL (15 menit).
func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	row, err := s.FindDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Store.PresignGet(ctx, row.DocumentObjectKey, presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign document: %w", err)
	}
	return &dto.DocumentResponse{
		Document:    *row,
		DownloadURL: url,
		ExpiresAt:   s.Clock.Now().Add(presignTTL),
	}, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, q dto.ListDocumentQuery) ([]model.Document, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Document{}).Where("document_condominium_id = ?", q.CondominiumID)
	if q.Category != nil {
		tx = tx.Where("document_category = ?", strings.ToLower(strings.TrimSpace(*q.Category)))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		tx = tx.Where("LOWER(document_title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Document
	page := tx.Order("document_created_at DESC").Order("document_version DESC")
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Versions: rantai versi dari id ini mundur ke versi 1.
func (s *DocumentService) Versions(ctx context.Context, id uuid.UUID) ([]model.Document, error) {
	var out []model.Document
	next := &id
	for next != nil {
		row, err := s.FindDocument(ctx, *next)
		if err != nil {
			if len(out) > 0 && helper.IsKind(err, helper.KindNotFound) {
				break
			}
			return nil, err
		}
		out = append(out, *row)
		next = row.DocumentPreviousVersionID
	}
	return out, nil
}

func (s *DocumentService) UpdateDocument(ctx context.Context, id uuid.UUID, req dto.UpdateDocumentRequest) (*model.Document, error) {
	row, err := s.FindDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		row.DocumentTitle = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		row.DocumentDescription = trimPtr(req.Description)
	}
	if req.Category != nil {
		row.DocumentCategory = lowerPtr(req.Category)
	}
	if err := s.DB.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteDocument: hapus baris dulu, object dibuang best-effort.
// Versi berikutnya yang menunjuk ke dokumen ini dilepas rantainya.
func (s *DocumentService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	var key string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Document
		if err := tx.First(&row, "document_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("document not found")
			}
			return err
		}
		if err := tx.Model(&model.Document{}).
			Where("document_previous_version_id = ?", id).
			Update("document_previous_version_id", row.DocumentPreviousVersionID).Error; err != nil {
			return err
		}
		key = row.DocumentObjectKey
		return tx.Delete(&row).Error
	})
	if err != nil {
		return err
	}
	s.removeObject(ctx, key)
	return nil
}

func (s *DocumentService) removeObject(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("document object cleanup failed")
	}
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

func lowerPtr(s *string) *string {
	t := trimPtr(s)
	if t == nil {
		return nil
	}
	l := strings.ToLower(*t)
	return &l
}
