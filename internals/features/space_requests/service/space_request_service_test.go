package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/space_requests/dto"
	"condominio_backend/internals/features/space_requests/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	svc     *SpaceRequestService
	condoID uuid.UUID
	owner   Requester
	other   Requester
	admin   Requester
	res     condoModel.Resident
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	condo := testutil.CreateCondominium(t, db, "Torre")
	residents := testutil.CreateResidents(t, db, condo.CondominiumID, 2)

	f := fixture{
		db:      db,
		svc:     NewSpaceRequestService(db, helper.FixedClock{T: testNow}),
		condoID: condo.CondominiumID,
		owner:   Requester{UserID: uuid.New()},
		other:   Requester{UserID: uuid.New()},
		admin:   Requester{UserID: uuid.New(), IsAdmin: true},
		res:     residents[0],
	}
	link := func(r condoModel.Resident, userID uuid.UUID) {
		if err := db.Model(&condoModel.Resident{}).Where("resident_id = ?", r.ResidentID).
			Update("resident_user_id", userID).Error; err != nil {
			t.Fatal(err)
		}
	}
	link(residents[0], f.owner.UserID)
	link(residents[1], f.other.UserID)
	return f
}

func (f fixture) request(space string, start time.Time, hours int) dto.CreateSpaceRequestRequest {
	return dto.CreateSpaceRequestRequest{
		ResidentID:  f.res.ResidentID,
		SpaceName:   space,
		RequestDate: start,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(hours) * time.Hour),
	}
}

func mustKind(t *testing.T, err error, kind helper.ErrorKind) {
	t.Helper()
	if !helper.IsKind(err, kind) {
		t.Fatalf("expected error kind %v, got %v", kind, err)
	}
}

func TestCreateSpaceRequestOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := testNow.AddDate(0, 0, 7)

	row, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request(" Salón comunal ", start, 3), f.owner)
	if err != nil {
		t.Fatal(err)
	}
	if row.SpaceRequestStatus != model.SpaceRequestStatusPending || row.SpaceRequestSpaceName != "Salón comunal" {
		t.Fatalf("created = %+v", row)
	}

	tests := []struct {
		name string
		req  dto.CreateSpaceRequestRequest
		who  Requester
		kind helper.ErrorKind
	}{
		{"someone else's resident", f.request("Piscina", start, 2), f.other, helper.KindForbidden},
		{"end before start", f.request("Piscina", start, -1), f.owner, helper.KindValidation},
		{"blank space", f.request("  ", start, 1), f.owner, helper.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateSpaceRequest(ctx, f.condoID, tc.req, tc.who)
			mustKind(t, err, tc.kind)
		})
	}

	// admin boleh mengajukan atas nama resident mana pun
	if _, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Piscina", start, 2), f.admin); err != nil {
		t.Fatalf("admin create: %v", err)
	}

	other := testutil.CreateCondominium(t, f.db, "Otro")
	_, err = f.svc.CreateSpaceRequest(ctx, other.CondominiumID, f.request("Piscina", start, 2), f.admin)
	mustKind(t, err, helper.KindValidation)
}

func TestSpaceRequestVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	row, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Cancha", testNow.AddDate(0, 0, 1), 1), f.owner)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		who  Requester
		want int
	}{
		{"owner", f.owner, 1},
		{"other resident", f.other, 0},
		{"admin", f.admin, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, total, err := f.svc.ListSpaceRequests(ctx, dto.ListSpaceRequestQuery{CondominiumID: f.condoID}, tc.who)
			if err != nil {
				t.Fatal(err)
			}
			if total != int64(tc.want) || len(rows) != tc.want {
				t.Fatalf("list = %d/%d, want %d", len(rows), total, tc.want)
			}
		})
	}

	if _, err := f.svc.GetSpaceRequest(ctx, row.SpaceRequestID, f.owner); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	_, err = f.svc.GetSpaceRequest(ctx, row.SpaceRequestID, f.other)
	mustKind(t, err, helper.KindForbidden)
	_, err = f.svc.GetSpaceRequest(ctx, uuid.New(), f.admin)
	mustKind(t, err, helper.KindNotFound)
}

func TestApproveAndRejectSpaceRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := testNow.AddDate(0, 0, 3)

	first, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Salón comunal", start, 4), f.owner)
	if err != nil {
		t.Fatal(err)
	}
	overlap, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("salón comunal", start.Add(2*time.Hour), 4), f.owner)
	if err != nil {
		t.Fatal(err)
	}
	later, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Salón comunal", start.Add(4*time.Hour), 2), f.owner)
	if err != nil {
		t.Fatal(err)
	}

	approved, err := f.svc.ApproveSpaceRequest(ctx, first.SpaceRequestID, f.admin.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if approved.SpaceRequestStatus != model.SpaceRequestStatusApproved ||
		approved.SpaceRequestReviewedBy == nil || *approved.SpaceRequestReviewedBy != f.admin.UserID ||
		approved.SpaceRequestReviewedAt == nil || !approved.SpaceRequestReviewedAt.Equal(testNow) {
		t.Fatalf("approved = %+v", approved)
	}

	_, err = f.svc.ApproveSpaceRequest(ctx, overlap.SpaceRequestID, f.admin.UserID)
	mustKind(t, err, helper.KindConflict)

	// berbatasan langsung (end == start) tidak dianggap bentrok
	if _, err := f.svc.ApproveSpaceRequest(ctx, later.SpaceRequestID, f.admin.UserID); err != nil {
		t.Fatalf("adjacent booking: %v", err)
	}

	_, err = f.svc.RejectSpaceRequest(ctx, overlap.SpaceRequestID, "   ", f.admin.UserID)
	mustKind(t, err, helper.KindValidation)
	rejected, err := f.svc.RejectSpaceRequest(ctx, overlap.SpaceRequestID, "Horario ocupado", f.admin.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if rejected.SpaceRequestStatus != model.SpaceRequestStatusRejected ||
		rejected.SpaceRequestRejectionReason == nil || *rejected.SpaceRequestRejectionReason != "Horario ocupado" {
		t.Fatalf("rejected = %+v", rejected)
	}

	_, err = f.svc.ApproveSpaceRequest(ctx, rejected.SpaceRequestID, f.admin.UserID)
	mustKind(t, err, helper.KindValidation)
}

func TestDeleteSpaceRequestRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := testNow.AddDate(0, 0, 2)

	pending, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Piscina", start, 1), f.owner)
	if err != nil {
		t.Fatal(err)
	}
	done, err := f.svc.CreateSpaceRequest(ctx, f.condoID, f.request("Cancha", start, 1), f.owner)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApproveSpaceRequest(ctx, done.SpaceRequestID, f.admin.UserID); err != nil {
		t.Fatal(err)
	}

	mustKind(t, f.svc.DeleteSpaceRequest(ctx, pending.SpaceRequestID, f.other), helper.KindForbidden)
	mustKind(t, f.svc.DeleteSpaceRequest(ctx, done.SpaceRequestID, f.owner), helper.KindValidation)

	if err := f.svc.DeleteSpaceRequest(ctx, pending.SpaceRequestID, f.owner); err != nil {
		t.Fatalf("owner delete pending: %v", err)
	}
	if err := f.svc.DeleteSpaceRequest(ctx, done.SpaceRequestID, f.admin); err != nil {
		t.Fatalf("admin delete approved: %v", err)
	}
	mustKind(t, f.svc.DeleteSpaceRequest(ctx, done.SpaceRequestID, f.admin), helper.KindNotFound)
}
