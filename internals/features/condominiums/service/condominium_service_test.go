package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/features/condominiums/dto"
	"condominio_backend/internals/features/condominiums/model"
	accountingModel "condominio_backend/internals/features/finance/accounting/model"
	invoiceModel "condominio_backend/internals/features/finance/invoices/model"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func str(s string) *string { return &s }

func newService(t *testing.T) (*CondominiumService, *gorm.DB, *oss.MemoryStore) {
	t.Helper()
	db := testutil.OpenDB(t)
	store := oss.NewMemoryStore()
	return NewCondominiumService(db, store, nil, helper.FixedClock{T: testNow}, 1<<20), db, store
}

func mustKind(t *testing.T, err error, kind helper.ErrorKind) {
	t.Helper()
	if !helper.IsKind(err, kind) {
		t.Fatalf("expected error kind %v, got %v", kind, err)
	}
}

// pngUpload membangun FileHeader multipart berisi PNG kecil.
func pngUpload(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(raw.Bytes()); err != nil {
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

func TestCreateCondominiumAddsMembership(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	actor := uuid.New()

	row, err := svc.CreateCondominium(ctx, dto.CreateCondominiumRequest{
		Name:  "  Torre Norte ",
		Email: str(" Admin@Torre.CO "),
	}, actor)
	if err != nil {
		t.Fatal(err)
	}
	if row.CondominiumName != "Torre Norte" || row.CondominiumEmail == nil || *row.CondominiumEmail != "admin@torre.co" {
		t.Fatalf("normalized = %+v", row)
	}

	var n int64
	db.Model(&userModel.UserCondominium{}).Where("user_id = ? AND condominium_id = ?", actor, row.CondominiumID).Count(&n)
	if n != 1 {
		t.Fatalf("membership rows = %d, want 1", n)
	}

	other := testutil.CreateCondominium(t, db, "Otro")
	mine, err := svc.ListCondominiums(ctx, []uuid.UUID{row.CondominiumID}, false)
	if err != nil || len(mine) != 1 {
		t.Fatalf("scoped list = %v (%v)", mine, err)
	}
	all, err := svc.ListCondominiums(ctx, nil, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("full list = %d (%v)", len(all), err)
	}
	none, _ := svc.ListCondominiums(ctx, nil, false)
	if len(none) != 0 {
		t.Fatalf("no memberships should list nothing, got %d", len(none))
	}

	if err := svc.DeleteCondominium(ctx, other.CondominiumID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.GetCondominium(ctx, other.CondominiumID)
	mustKind(t, err, helper.KindNotFound)
	mustKind(t, svc.DeleteCondominium(ctx, other.CondominiumID), helper.KindNotFound)
}

func TestUpdateCondominiumPartial(t *testing.T) {
	svc, db, _ := newService(t)
	condo := testutil.CreateCondominium(t, db, "Torre")
	inactive := false

	got, err := svc.UpdateCondominium(context.Background(), condo.CondominiumID, dto.UpdateCondominiumRequest{
		City:     str("Bogotá"),
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.CondominiumName != "Torre" || got.CondominiumCity == nil || *got.CondominiumCity != "Bogotá" || got.CondominiumIsActive {
		t.Fatalf("updated = %+v", got)
	}

	got, err = svc.UpdateCondominium(context.Background(), condo.CondominiumID, dto.UpdateCondominiumRequest{City: str("  ")})
	if err != nil {
		t.Fatal(err)
	}
	if got.CondominiumCity != nil {
		t.Fatalf("blank city should clear, got %q", *got.CondominiumCity)
	}
}

func TestBlockLifecycle(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")

	b, err := svc.CreateBlock(ctx, condo.CondominiumID, dto.BlockRequest{Name: "Torre A"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateBlock(ctx, condo.CondominiumID, dto.BlockRequest{Name: "Torre A"})
	mustKind(t, err, helper.KindConflict)

	testutil.CreateProperties(t, db, condo.CondominiumID, &b.BlockID, "A", 1)
	mustKind(t, svc.DeleteBlock(ctx, b.BlockID), helper.KindConflict)

	empty, err := svc.CreateBlock(ctx, condo.CondominiumID, dto.BlockRequest{Name: "Torre B"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteBlock(ctx, empty.BlockID); err != nil {
		t.Fatal(err)
	}
	mustKind(t, svc.DeleteBlock(ctx, empty.BlockID), helper.KindNotFound)
}

func TestPropertyRules(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	other := testutil.CreateCondominium(t, db, "Otro")
	foreignBlock := testutil.CreateBlock(t, db, other.CondominiumID, "X")

	p, err := svc.CreateProperty(ctx, condo.CondominiumID, dto.CreatePropertyRequest{Code: " a-101 "})
	if err != nil {
		t.Fatal(err)
	}
	if p.PropertyCode != "A-101" || p.PropertyType != model.PropertyTypeApartment {
		t.Fatalf("normalized = %+v", p)
	}

	_, err = svc.CreateProperty(ctx, condo.CondominiumID, dto.CreatePropertyRequest{Code: "A-101"})
	mustKind(t, err, helper.KindConflict)

	_, err = svc.CreateProperty(ctx, condo.CondominiumID, dto.CreatePropertyRequest{Code: "A-102", BlockID: &foreignBlock.BlockID})
	mustKind(t, err, helper.KindValidation)

	neg := decimal.NewFromInt(-3)
	_, err = svc.CreateProperty(ctx, condo.CondominiumID, dto.CreatePropertyRequest{Code: "A-103", Area: &neg})
	mustKind(t, err, helper.KindValidation)

	_, err = svc.CreateProperty(ctx, uuid.New(), dto.CreatePropertyRequest{Code: "Z-1"})
	mustKind(t, err, helper.KindNotFound)

	rows, total, err := svc.ListProperties(ctx, dto.ListPropertyQuery{CondominiumID: condo.CondominiumID, Search: "101"})
	if err != nil || total != 1 || len(rows) != 1 {
		t.Fatalf("search = %d/%d (%v)", len(rows), total, err)
	}
}

func TestDeletePropertyWithInvoicesConflicts(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	props := testutil.CreateProperties(t, db, condo.CondominiumID, nil, "A", 2)

	inv := invoiceModel.Invoice{
		InvoiceCondominiumID:     condo.CondominiumID,
		InvoicePropertyID:        props[0].PropertyID,
		InvoiceNumber:            "INV-TEST-1",
		InvoiceMonth:             6,
		InvoiceYear:              2024,
		InvoiceIssueDate:         testNow,
		InvoiceDueDate:           testNow.AddDate(0, 0, 15),
		InvoiceBaseAmount:        decimal.NewFromInt(100),
		InvoiceAdditionalCharges: decimal.Zero,
		InvoiceDiscounts:         decimal.Zero,
		InvoiceTotalAmount:       decimal.NewFromInt(100),
		InvoicePaidAmount:        decimal.Zero,
		InvoicePendingAmount:     decimal.NewFromInt(100),
		InvoiceStatus:            invoiceModel.InvoiceStatusPending,
		InvoiceIsActive:          true,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatal(err)
	}

	mustKind(t, svc.DeleteProperty(ctx, props[0].PropertyID), helper.KindConflict)
	if err := svc.DeleteProperty(ctx, props[1].PropertyID); err != nil {
		t.Fatal(err)
	}
	_, err := svc.FindProperty(ctx, props[1].PropertyID)
	mustKind(t, err, helper.KindNotFound)
}

func TestLinkPropertyPrimaryIsExclusive(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	other := testutil.CreateCondominium(t, db, "Otro")
	prop := testutil.CreateProperties(t, db, condo.CondominiumID, nil, "A", 1)[0]
	foreign := testutil.CreateProperties(t, db, other.CondominiumID, nil, "B", 1)[0]
	res := testutil.CreateResidents(t, db, condo.CondominiumID, 2)

	if _, err := svc.LinkProperty(ctx, res[0].ResidentID, dto.LinkPropertyRequest{PropertyID: prop.PropertyID, IsPrimary: true}); err != nil {
		t.Fatal(err)
	}
	link, err := svc.LinkProperty(ctx, res[1].ResidentID, dto.LinkPropertyRequest{PropertyID: prop.PropertyID, Relation: "Tenant", IsPrimary: true})
	if err != nil {
		t.Fatal(err)
	}
	if link.PropertyResidentRelation != model.RelationTenant {
		t.Fatalf("relation = %s", link.PropertyResidentRelation)
	}

	var primaries int64
	db.Model(&model.PropertyResident{}).
		Where("property_resident_property_id = ? AND property_resident_is_primary = ?", prop.PropertyID, true).
		Count(&primaries)
	if primaries != 1 {
		t.Fatalf("primary links = %d, want 1", primaries)
	}

	_, err = svc.LinkProperty(ctx, res[0].ResidentID, dto.LinkPropertyRequest{PropertyID: prop.PropertyID})
	mustKind(t, err, helper.KindConflict)

	_, err = svc.LinkProperty(ctx, res[0].ResidentID, dto.LinkPropertyRequest{PropertyID: foreign.PropertyID})
	mustKind(t, err, helper.KindValidation)

	over := decimal.NewFromInt(120)
	_, err = svc.LinkProperty(ctx, res[0].ResidentID, dto.LinkPropertyRequest{PropertyID: prop.PropertyID, Ownership: &over})
	mustKind(t, err, helper.KindValidation)

	byProp, total, err := svc.ListResidents(ctx, dto.ListResidentQuery{CondominiumID: condo.CondominiumID, PropertyID: &prop.PropertyID})
	if err != nil || total != 2 || len(byProp) != 2 {
		t.Fatalf("residents by property = %d/%d (%v)", len(byProp), total, err)
	}

	if err := svc.UnlinkProperty(ctx, res[0].ResidentID, prop.PropertyID); err != nil {
		t.Fatal(err)
	}
	mustKind(t, svc.UnlinkProperty(ctx, res[0].ResidentID, prop.PropertyID), helper.KindNotFound)

	detail, err := svc.ResidentDetail(ctx, res[1].ResidentID)
	if err != nil || len(detail.Properties) != 1 {
		t.Fatalf("detail = %+v (%v)", detail, err)
	}
}

func TestUploadImageReplacesPreviousObject(t *testing.T) {
	svc, db, store := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	res := testutil.CreateResidents(t, db, condo.CondominiumID, 1)[0]
	prop := testutil.CreateProperties(t, db, condo.CondominiumID, nil, "A", 1)[0]

	tests := []struct {
		name   string
		upload func(name string) (string, error)
		stored func() string
	}{
		{
			name: "resident photo",
			upload: func(name string) (string, error) {
				row, err := svc.UploadResidentPhoto(ctx, res.ResidentID, pngUpload(t, name))
				if err != nil {
					return "", err
				}
				return *row.ResidentPhotoKey, nil
			},
			stored: func() string {
				var row model.Resident
				db.First(&row, "resident_id = ?", res.ResidentID)
				return *row.ResidentPhotoKey
			},
		},
		{
			name: "property photo",
			upload: func(name string) (string, error) {
				row, err := svc.UploadPropertyPhoto(ctx, prop.PropertyID, pngUpload(t, name))
				if err != nil {
					return "", err
				}
				return *row.PropertyPhotoKey, nil
			},
			stored: func() string {
				var row model.Property
				db.First(&row, "property_id = ?", prop.PropertyID)
				return *row.PropertyPhotoKey
			},
		},
		{
			name: "condominium logo",
			upload: func(name string) (string, error) {
				row, err := svc.UploadLogo(ctx, condo.CondominiumID, pngUpload(t, name))
				if err != nil {
					return "", err
				}
				return *row.CondominiumLogoKey, nil
			},
			stored: func() string {
				var row model.Condominium
				db.First(&row, "condominium_id = ?", condo.CondominiumID)
				return *row.CondominiumLogoKey
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			firstKey, err := tt.upload("a.png")
			if err != nil {
				t.Fatal(err)
			}
			if !store.Has(firstKey) {
				t.Fatalf("object %s not stored", firstKey)
			}

			secondKey, err := tt.upload("b.png")
			if err != nil {
				t.Fatal(err)
			}
			if secondKey == firstKey {
				t.Fatal("re-upload should produce a new key")
			}
			if !store.Has(secondKey) {
				t.Fatalf("new object %s was removed", secondKey)
			}
			if store.Has(firstKey) {
				t.Fatalf("old object %s should be removed", firstKey)
			}
			if got := tt.stored(); got != secondKey {
				t.Fatalf("row points at %s, want %s", got, secondKey)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	props := testutil.CreateProperties(t, db, condo.CondominiumID, nil, "A", 3)
	testutil.CreateResidents(t, db, condo.CondominiumID, 2)

	mk := func(p model.Property, month int, due time.Time, pending int64) {
		inv := invoiceModel.Invoice{
			InvoiceCondominiumID:     condo.CondominiumID,
			InvoicePropertyID:        p.PropertyID,
			InvoiceNumber:            "INV-" + p.PropertyCode,
			InvoiceMonth:             month,
			InvoiceYear:              2024,
			InvoiceIssueDate:         due.AddDate(0, 0, -15),
			InvoiceDueDate:           due,
			InvoiceBaseAmount:        decimal.NewFromInt(pending),
			InvoiceAdditionalCharges: decimal.Zero,
			InvoiceDiscounts:         decimal.Zero,
			InvoiceTotalAmount:       decimal.NewFromInt(pending),
			InvoicePaidAmount:        decimal.Zero,
			InvoicePendingAmount:     decimal.NewFromInt(pending),
			InvoiceStatus:            invoiceModel.InvoiceStatusPending,
			InvoiceIsActive:          true,
		}
		if err := db.Create(&inv).Error; err != nil {
			t.Fatal(err)
		}
	}
	mk(props[0], 5, time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC), 100)
	mk(props[1], 6, time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC), 250)

	for _, tx := range []accountingModel.AccountingTransaction{
		{TransactionType: accountingModel.TransactionTypeIncome, TransactionAmount: decimal.NewFromInt(500), TransactionDate: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), TransactionStatus: accountingModel.TransactionStatusCompleted},
		{TransactionType: accountingModel.TransactionTypeExpense, TransactionAmount: decimal.NewFromInt(80), TransactionDate: time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC), TransactionStatus: accountingModel.TransactionStatusPending},
		{TransactionType: accountingModel.TransactionTypeExpense, TransactionAmount: decimal.NewFromInt(999), TransactionDate: time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC), TransactionStatus: accountingModel.TransactionStatusCancelled},
		{TransactionType: accountingModel.TransactionTypeIncome, TransactionAmount: decimal.NewFromInt(700), TransactionDate: time.Date(2024, time.May, 30, 0, 0, 0, 0, time.UTC), TransactionStatus: accountingModel.TransactionStatusCompleted},
	} {
		tx.TransactionCondominiumID = condo.CondominiumID
		tx.TransactionDescription = "seed"
		if err := db.Create(&tx).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Dashboard(ctx, condo.CondominiumID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Properties != 3 || got.Residents != 2 {
		t.Fatalf("counts = %+v", got)
	}
	if got.OverdueInvoices != 1 || !got.OverdueAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("overdue = %d / %s", got.OverdueInvoices, got.OverdueAmount)
	}
	if got.PendingInvoices != 1 || !got.PendingAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("pending = %d / %s", got.PendingInvoices, got.PendingAmount)
	}
	if !got.MonthIncome.Equal(decimal.NewFromInt(500)) || !got.MonthExpense.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("month = income %s expense %s", got.MonthIncome, got.MonthExpense)
	}

	_, err = svc.Dashboard(ctx, uuid.New())
	mustKind(t, err, helper.KindNotFound)
}
