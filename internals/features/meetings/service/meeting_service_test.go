package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/meetings/dto"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func TestMeetingAttendanceUpsert(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMeetingService(db, helper.FixedClock{T: testNow})
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")
	other := testutil.CreateCondominium(t, db, "Otro")
	res := testutil.CreateResidents(t, db, condo.CondominiumID, 2)
	stranger := testutil.CreateResidents(t, db, other.CondominiumID, 1)[0]

	m, err := svc.CreateMeeting(ctx, condo.CondominiumID, dto.CreateMeetingRequest{
		Title:         "Consejo de administración",
		ScheduledDate: testNow.AddDate(0, 0, 3),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.MeetingType != "general" || m.MeetingIsCompleted {
		t.Fatalf("defaults = %+v", m)
	}

	first, err := svc.RecordAttendance(ctx, m.MeetingID, dto.MeetingAttendanceRequest{ResidentID: res[0].ResidentID, Attended: false})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RecordAttendance(ctx, m.MeetingID, dto.MeetingAttendanceRequest{ResidentID: res[0].ResidentID, Attended: true})
	if err != nil {
		t.Fatal(err)
	}
	if first.MeetingAttendanceID != second.MeetingAttendanceID || !second.MeetingAttendanceAttended {
		t.Fatalf("upsert should update the same row: %+v vs %+v", first, second)
	}
	if _, err := svc.RecordAttendance(ctx, m.MeetingID, dto.MeetingAttendanceRequest{ResidentID: res[1].ResidentID}); err != nil {
		t.Fatal(err)
	}

	_, err = svc.RecordAttendance(ctx, m.MeetingID, dto.MeetingAttendanceRequest{ResidentID: stranger.ResidentID, Attended: true})
	if !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("foreign resident err = %v", err)
	}

	detail, err := svc.MeetingDetail(ctx, m.MeetingID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Attendances) != 2 || detail.AttendedCount != 1 {
		t.Fatalf("detail attendances=%d attended=%d", len(detail.Attendances), detail.AttendedCount)
	}
}

func TestMeetingUpdateListDelete(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMeetingService(db, helper.FixedClock{T: testNow})
	ctx := context.Background()
	condo := testutil.CreateCondominium(t, db, "Torre")

	for i, day := range []int{1, 15, 28} {
		_, err := svc.CreateMeeting(ctx, condo.CondominiumID, dto.CreateMeetingRequest{
			Title:         "Reunión",
			Type:          "committee",
			ScheduledDate: time.Date(2024, time.June, day, 18, 0, 0, 0, time.UTC),
		}, nil)
		if err != nil {
			t.Fatalf("meeting %d: %v", i, err)
		}
	}

	from := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.June, 28, 0, 0, 0, 0, time.UTC)
	rows, total, err := svc.ListMeetings(ctx, dto.ListMeetingQuery{CondominiumID: condo.CondominiumID, From: &from, To: &to})
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("ranged list = %d/%d (%v)", len(rows), total, err)
	}
	if !rows[0].MeetingScheduledDate.After(rows[1].MeetingScheduledDate) {
		t.Fatalf("list should be newest first")
	}

	done := true
	minutes := "  Se aprobó el presupuesto.  "
	got, err := svc.UpdateMeeting(ctx, rows[1].MeetingID, dto.UpdateMeetingRequest{IsCompleted: &done, Minutes: &minutes})
	if err != nil {
		t.Fatal(err)
	}
	if !got.MeetingIsCompleted || got.MeetingMinutes == nil || *got.MeetingMinutes != "Se aprobó el presupuesto." {
		t.Fatalf("updated = %+v", got)
	}

	completed, _, err := svc.ListMeetings(ctx, dto.ListMeetingQuery{CondominiumID: condo.CondominiumID, IsCompleted: &done})
	if err != nil || len(completed) != 1 {
		t.Fatalf("completed = %d (%v)", len(completed), err)
	}

	if err := svc.DeleteMeeting(ctx, got.MeetingID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteMeeting(ctx, got.MeetingID); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if _, err := svc.CreateMeeting(ctx, uuid.New(), dto.CreateMeetingRequest{Title: "x", ScheduledDate: testNow}, nil); !helper.IsKind(err, helper.KindNotFound) {
		t.Fatalf("unknown condominium err = %v", err)
	}
}
