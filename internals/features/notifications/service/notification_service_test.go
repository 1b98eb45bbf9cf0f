package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/notifications/dto"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

func TestNotificationVisibilityAndReads(t *testing.T) {
	db := testutil.OpenDB(t)
	clock := helper.FixedClock{T: time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)}
	svc := NewNotificationService(db, clock)
	ctx := context.Background()

	condo := testutil.CreateCondominium(t, db, "Torre")
	other := testutil.CreateCondominium(t, db, "Otro")
	me, neighbour := uuid.New(), uuid.New()
	for _, uc := range []userModel.UserCondominium{
		{UserID: me, CondominiumID: condo.CondominiumID},
		{UserID: neighbour, CondominiumID: condo.CondominiumID},
	} {
		if err := db.Create(&uc).Error; err != nil {
			t.Fatal(err)
		}
	}

	broadcast, err := svc.Create(ctx, condo.CondominiumID, dto.CreateNotificationRequest{Title: "Corte de agua", Message: "Mañana 8-12"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if broadcast.NotificationType != "announcement" {
		t.Fatalf("default type = %s", broadcast.NotificationType)
	}
	mine, err := svc.Create(ctx, condo.CondominiumID, dto.CreateNotificationRequest{Title: "Recordatorio", Message: "Factura pendiente", Type: "payment_reminder", UserID: &me, Data: map[string]any{"invoice_id": "INV-1"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := svc.Find(ctx, mine.NotificationID); got == nil || got.NotificationData["invoice_id"] != "INV-1" {
		t.Fatalf("payload not persisted: %+v", got)
	}
	if _, err := svc.Create(ctx, condo.CondominiumID, dto.CreateNotificationRequest{Title: "Privado", Message: "x", UserID: &neighbour}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, other.CondominiumID, dto.CreateNotificationRequest{Title: "Otro", Message: "x"}, nil); err != nil {
		t.Fatal(err)
	}

	outsider := uuid.New()
	_, err = svc.Create(ctx, condo.CondominiumID, dto.CreateNotificationRequest{Title: "x", Message: "x", UserID: &outsider}, nil)
	if !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("non-member target err = %v", err)
	}

	scope := []uuid.UUID{condo.CondominiumID}
	items, total, err := svc.ListMine(ctx, dto.ListMineQuery{UserID: me, CondominiumIDs: scope})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("visible = %d/%d, want broadcast + targeted", len(items), total)
	}

	if err := svc.MarkRead(ctx, mine.NotificationID, me); err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkRead(ctx, mine.NotificationID, me); err != nil {
		t.Fatalf("mark read should be idempotent: %v", err)
	}

	unread, err := svc.UnreadCount(ctx, me, scope)
	if err != nil || unread != 1 {
		t.Fatalf("unread = %d (%v), want 1", unread, err)
	}
	neighbourUnread, _ := svc.UnreadCount(ctx, neighbour, scope)
	if neighbourUnread != 2 {
		t.Fatalf("neighbour unread = %d, want 2", neighbourUnread)
	}

	items, _, _ = svc.ListMine(ctx, dto.ListMineQuery{UserID: me, CondominiumIDs: scope})
	for _, it := range items {
		if it.NotificationID == mine.NotificationID && (!it.IsRead || it.ReadAt == nil) {
			t.Fatalf("targeted notification should be read: %+v", it)
		}
		if it.NotificationID == broadcast.NotificationID && it.IsRead {
			t.Fatalf("broadcast should still be unread")
		}
	}

	if !VisibleTo(mine, me, true) || VisibleTo(mine, neighbour, true) || VisibleTo(broadcast, me, false) {
		t.Fatal("VisibleTo rules broken")
	}

	if err := svc.Delete(ctx, mine.NotificationID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, mine.NotificationID); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
