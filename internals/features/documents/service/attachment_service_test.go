package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"condominio_backend/internals/features/documents/dto"
	"condominio_backend/internals/features/documents/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
	"condominio_backend/internals/testutil"
)

func TestAttachmentLifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	store := oss.NewMemoryStore()
	svc := NewDocumentService(db, store, helper.FixedClock{T: testNow}, 1024)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	res := testutil.CreateResidents(t, db, condo.CondominiumID, 1)[0]
	prop := testutil.CreateProperties(t, db, condo.CondominiumID, nil, "A", 1)[0]

	tests := []struct {
		entityType string
		entityID   uuid.UUID
	}{
		{model.AttachmentEntityResident, res.ResidentID},
		{model.AttachmentEntityProperty, prop.PropertyID},
	}
	for _, tc := range tests {
		t.Run(tc.entityType, func(t *testing.T) {
			row, err := svc.UploadAttachment(ctx, condo.CondominiumID, dto.UploadAttachmentRequest{
				EntityType: tc.entityType,
				EntityID:   tc.entityID.String(),
				Title:      " Contrato ",
			}, fileUpload(t, "contrato.pdf", "pdf"), nil)
			if err != nil {
				t.Fatal(err)
			}
			if row.DocumentAttachmentTitle != "Contrato" || !store.Has(row.DocumentAttachmentObjectKey) {
				t.Fatalf("attachment = %+v", row)
			}

			owner, err := svc.EntityCondominium(ctx, tc.entityType, tc.entityID)
			if err != nil || owner != condo.CondominiumID {
				t.Fatalf("entity condominium = %s (%v)", owner, err)
			}

			list, err := svc.ListAttachments(ctx, tc.entityType, tc.entityID)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 1 || list[0].DownloadURL == "" {
				t.Fatalf("list = %+v", list)
			}

			if err := svc.DeleteAttachment(ctx, row.DocumentAttachmentID); err != nil {
				t.Fatal(err)
			}
			if store.Has(row.DocumentAttachmentObjectKey) {
				t.Fatal("attachment object should be removed")
			}
			list, err = svc.ListAttachments(ctx, tc.entityType, tc.entityID)
			if err != nil || len(list) != 0 {
				t.Fatalf("after delete = %d (%v)", len(list), err)
			}
		})
	}
}

func TestAttachmentUploadRules(t *testing.T) {
	db := testutil.OpenDB(t)
	store := oss.NewMemoryStore()
	svc := NewDocumentService(db, store, helper.FixedClock{T: testNow}, 1024)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	other := testutil.CreateCondominium(t, db, "Otro")
	foreign := testutil.CreateResidents(t, db, other.CondominiumID, 1)[0]

	tests := []struct {
		name string
		req  dto.UploadAttachmentRequest
		kind helper.ErrorKind
	}{
		{"resident of another condominium", dto.UploadAttachmentRequest{EntityType: "resident", EntityID: foreign.ResidentID.String(), Title: "x"}, helper.KindNotFound},
		{"unknown property", dto.UploadAttachmentRequest{EntityType: "property", EntityID: uuid.NewString(), Title: "x"}, helper.KindNotFound},
		{"unknown entity type", dto.UploadAttachmentRequest{EntityType: "block", EntityID: uuid.NewString(), Title: "x"}, helper.KindValidation},
		{"malformed id", dto.UploadAttachmentRequest{EntityType: "resident", EntityID: "nope", Title: "x"}, helper.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadAttachment(ctx, condo.CondominiumID, tc.req, fileUpload(t, "a.txt", "a"), nil)
			if !helper.IsKind(err, tc.kind) {
				t.Fatalf("err = %v, want kind %v", err, tc.kind)
			}
		})
	}

	var n int64
	db.Model(&model.DocumentAttachment{}).Count(&n)
	if n != 0 {
		t.Fatalf("rejected uploads stored %d rows", n)
	}
	if err := svc.DeleteAttachment(ctx, uuid.New()); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("delete unknown err = %v", err)
	}
}
