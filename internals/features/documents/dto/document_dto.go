package dto

import (
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/documents/model"
)

// UploadDocumentRequest diisi dari field form multipart.
type UploadDocumentRequest struct {
	Title       string  `form:"title" validate:"required,max=255"`
	Description *string `form:"description"`
	Category    *string `form:"category" validate:"omitempty,max=100"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
}

type ListDocumentQuery struct {
	CondominiumID uuid.UUID
	Category      *string
	Search        string
	Offset        int
	Limit         int
}

// DocumentResponse: metadata + URL unduhan sementara.
type DocumentResponse struct {
	model.Document
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"download_url_expires_at"`
}

// UploadAttachmentRequest diisi dari field form multipart.
type UploadAttachmentRequest struct {
	EntityType  string  `form:"entity_type" validate:"required,oneof=resident property"`
	EntityID    string  `form:"entity_id" validate:"required,uuid"`
	Title       string  `form:"title" validate:"required,max=255"`
	Description *string `form:"description"`
}

type AttachmentResponse struct {
	model.DocumentAttachment
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"download_url_expires_at"`
}
