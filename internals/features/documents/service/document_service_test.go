package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/documents/dto"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func fileUpload(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestDocumentVersioning(t *testing.T) {
	db := testutil.OpenDB(t)
	store := oss.NewMemoryStore()
	svc := NewDocumentService(db, store, helper.FixedClock{T: testNow}, 1024)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	cat := " Legal "

	v1, err := svc.Upload(ctx, condo.CondominiumID, dto.UploadDocumentRequest{Title: "Reglamento", Category: &cat}, fileUpload(t, "reglamento.pdf", "v1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if v1.DocumentVersion != 1 || v1.DocumentCategory == nil || *v1.DocumentCategory != "legal" {
		t.Fatalf("v1 = %+v", v1)
	}
	if !store.Has(v1.DocumentObjectKey) {
		t.Fatal("v1 object missing")
	}

	v2, err := svc.NewVersion(ctx, v1.DocumentID, fileUpload(t, "reglamento-2.pdf", "v2"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if v2.DocumentVersion != 2 || v2.DocumentPreviousVersionID == nil || *v2.DocumentPreviousVersionID != v1.DocumentID {
		t.Fatalf("v2 = %+v", v2)
	}
	if v2.DocumentTitle != "Reglamento" {
		t.Fatalf("version should inherit title, got %q", v2.DocumentTitle)
	}

	chain, err := svc.Versions(ctx, v2.DocumentID)
	if err != nil || len(chain) != 2 || chain[1].DocumentID != v1.DocumentID {
		t.Fatalf("chain = %d (%v)", len(chain), err)
	}

	got, err := svc.GetDocument(ctx, v2.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got.DownloadURL, "memory://") || !got.ExpiresAt.Equal(testNow.Add(15*time.Minute)) {
		t.Fatalf("presign = %s exp %s", got.DownloadURL, got.ExpiresAt)
	}

	legal := "legal"
	rows, total, err := svc.ListDocuments(ctx, dto.ListDocumentQuery{CondominiumID: condo.CondominiumID, Category: &legal})
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("list = %d/%d (%v)", len(rows), total, err)
	}

	if err := svc.DeleteDocument(ctx, v1.DocumentID); err != nil {
		t.Fatal(err)
	}
	if store.Has(v1.DocumentObjectKey) {
		t.Fatal("v1 object should be removed")
	}
	after, err := svc.FindDocument(ctx, v2.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if after.DocumentPreviousVersionID != nil {
		t.Fatalf("dangling previous version: %v", after.DocumentPreviousVersionID)
	}
}

func TestDocumentUploadRules(t *testing.T) {
	db := testutil.OpenDB(t)
	condo := testutil.CreateCondominium(t, db, "Torre")
	ctx := context.Background()

	svc := NewDocumentService(db, oss.NewMemoryStore(), helper.FixedClock{T: testNow}, 4)
	_, err := svc.Upload(ctx, condo.CondominiumID, dto.UploadDocumentRequest{Title: "Acta"}, fileUpload(t, "acta.txt", "too large"), nil)
	if !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("oversized err = %v", err)
	}

	_, err = svc.Upload(ctx, uuid.New(), dto.UploadDocumentRequest{Title: "Acta"}, fileUpload(t, "acta.txt", "ok"), nil)
	if !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown condominium err = %v", err)
	}

	noStore := NewDocumentService(db, nil, nil, 0)
	_, err = noStore.Upload(ctx, condo.CondominiumID, dto.UploadDocumentRequest{Title: "Acta"}, fileUpload(t, "acta.txt", "ok"), nil)
	if !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("missing store err = %v", err)
	}
	if err := svc.DeleteDocument(ctx, uuid.New()); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("delete unknown err = %v", err)
	}
}
