package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentCategoryLegal     = "legal"
	DocumentCategoryFinancial = "financial"
	DocumentCategoryMeeting   = "meeting"
	DocumentCategoryOther     = "other"
)

// Document: metadata file di object storage. Versi baru = baris baru
// dengan version+1 dan previous_version_id ke versi sebelumnya.
type Document struct {
	DocumentID            uuid.UUID `json:"document_id" gorm:"type:uuid;primaryKey;column:document_id"`
	DocumentCondominiumID uuid.UUID `json:"document_condominium_id" gorm:"type:uuid;not null;index:idx_document_condominium_category;column:document_condominium_id"`

	DocumentTitle       string  `json:"document_title" gorm:"size:255;not null;column:document_title"`
	DocumentDescription *string `json:"document_description" gorm:"type:text;column:document_description"`
	DocumentCategory    *string `json:"document_category" gorm:"size:100;index:idx_document_condominium_category;column:document_category"`

	DocumentObjectKey string  `json:"-" gorm:"size:500;not null;column:document_object_key"`
	DocumentFileName  string  `json:"document_file_name" gorm:"size:255;not null;column:document_file_name"`
	DocumentFileSize  int64   `json:"document_file_size" gorm:"not null;column:document_file_size"`
	DocumentMimeType  *string `json:"document_mime_type" gorm:"size:100;column:document_mime_type"`

	DocumentVersion           int        `json:"document_version" gorm:"not null;column:document_version"`
	DocumentPreviousVersionID *uuid.UUID `json:"document_previous_version_id" gorm:"type:uuid;index;column:document_previous_version_id"`

	DocumentUploadedBy *uuid.UUID `json:"document_uploaded_by" gorm:"type:uuid;column:document_uploaded_by"`
	DocumentCreatedAt  time.Time  `json:"document_created_at" gorm:"not null;autoCreateTime;column:document_created_at"`
	DocumentUpdatedAt  time.Time  `json:"document_updated_at" gorm:"not null;autoUpdateTime;column:document_updated_at"`
}

func (Document) TableName() string { return "documents" }

func (m *Document) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentID == uuid.Nil {
		m.DocumentID = uuid.New()
	}
	if m.DocumentVersion == 0 {
		m.DocumentVersion = 1
	}
	return nil
}

/* ===================== DocumentAttachment ===================== */

const (
	AttachmentEntityResident = "resident"
	AttachmentEntityProperty = "property"
)

// DocumentAttachment: file yang ditempel ke resident atau property.
type DocumentAttachment struct {
	DocumentAttachmentID            uuid.UUID `json:"document_attachment_id" gorm:"type:uuid;primaryKey;column:document_attachment_id"`
	DocumentAttachmentCondominiumID uuid.UUID `json:"document_attachment_condominium_id" gorm:"type:uuid;not null;index;column:document_attachment_condominium_id"`
	DocumentAttachmentEntityType    string    `json:"document_attachment_entity_type" gorm:"size:20;not null;index:idx_document_attachment_entity;column:document_attachment_entity_type"`
	DocumentAttachmentEntityID      uuid.UUID `json:"document_attachment_entity_id" gorm:"type:uuid;not null;index:idx_document_attachment_entity;column:document_attachment_entity_id"`

	DocumentAttachmentTitle       string  `json:"document_attachment_title" gorm:"size:255;not null;column:document_attachment_title"`
	DocumentAttachmentDescription *string `json:"document_attachment_description" gorm:"type:text;column:document_attachment_description"`

	DocumentAttachmentObjectKey string  `json:"-" gorm:"size:500;not null;column:document_attachment_object_key"`
	DocumentAttachmentFileName  string  `json:"document_attachment_file_name" gorm:"size:255;not null;column:document_attachment_file_name"`
	DocumentAttachmentFileSize  int64   `json:"document_attachment_file_size" gorm:"not null;column:document_attachment_file_size"`
	DocumentAttachmentMimeType  *string `json:"document_attachment_mime_type" gorm:"size:100;column:document_attachment_mime_type"`

	DocumentAttachmentUploadedBy *uuid.UUID `json:"document_attachment_uploaded_by" gorm:"type:uuid;column:document_attachment_uploaded_by"`
	DocumentAttachmentCreatedAt  time.Time  `json:"document_attachment_created_at" gorm:"not null;autoCreateTime;column:document_attachment_created_at"`
	DocumentAttachmentUpdatedAt  time.Time  `json:"document_attachment_updated_at" gorm:"not null;autoUpdateTime;column:document_attachment_updated_at"`
}

func (DocumentAttachment) TableName() string { return "document_attachments" }

func (m *DocumentAttachment) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentAttachmentID == uuid.Nil {
		m.DocumentAttachmentID = uuid.New()
	}
	return nil
}
