package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"condominio_backend/internals/features/assemblies/dto"
	"condominio_backend/internals/features/assemblies/model"
	condoModel "condominio_backend/internals/features/condominiums/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	svc       *AssemblyService
	condoID   uuid.UUID
	residents []condoModel.Resident
}

func newFixture(t *testing.T, units, residents int) fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	condo := testutil.CreateCondominium(t, db, "Edificio Central")
	testutil.CreateProperties(t, db, condo.CondominiumID, nil, "U", units)
	return fixture{
		db:        db,
		svc:       NewAssemblyService(db, helper.FixedClock{T: testNow}),
		condoID:   condo.CondominiumID,
		residents: testutil.CreateResidents(t, db, condo.CondominiumID, residents),
	}
}

func (f fixture) assembly(t *testing.T) *model.Assembly {
	t.Helper()
	a, err := f.svc.CreateAssembly(context.Background(), dto.CreateAssemblyRequest{
		CondominiumID: f.condoID,
		Title:         "Asamblea ordinaria",
		ScheduledDate: testNow,
	}, nil)
	if err != nil {
		t.Fatalf("create assembly: %v", err)
	}
	return a
}

func (f fixture) vote(t *testing.T, assemblyID uuid.UUID, opts ...model.VoteOption) *dto.VoteResponse {
	t.Helper()
	v, err := f.svc.CreateVote(context.Background(), assemblyID, dto.CreateVoteRequest{Title: "Presupuesto", Options: opts})
	if err != nil {
		t.Fatalf("create vote: %v", err)
	}
	return v
}

func (f fixture) cast(t *testing.T, voteID uuid.UUID, resident int, value string) *dto.CastVoteResult {
	t.Helper()
	res, err := f.svc.CastVote(context.Background(), voteID, dto.CastVoteRequest{
		ResidentID: f.residents[resident].ResidentID,
		Value:      value,
	})
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	return res
}

func mustKind(t *testing.T, err error, kind helper.ErrorKind) {
	t.Helper()
	if err == nil || !helper.IsKind(err, kind) {
		t.Fatalf("expected error kind %v, got %v", kind, err)
	}
}

func TestAssemblyNumbersAreSequential(t *testing.T) {
	f := newFixture(t, 1, 0)
	first := f.assembly(t)
	second := f.assembly(t)
	if first.AssemblyNumber != 1 || second.AssemblyNumber != 2 {
		t.Fatalf("numbers = %d, %d, want 1, 2", first.AssemblyNumber, second.AssemblyNumber)
	}
	if first.AssemblyRequiredQuorum != defaultRequiredQuorum {
		t.Fatalf("required quorum = %v, want default", first.AssemblyRequiredQuorum)
	}

	other := testutil.CreateCondominium(t, f.db, "Otro")
	a, err := f.svc.CreateAssembly(context.Background(), dto.CreateAssemblyRequest{
		CondominiumID: other.CondominiumID, Title: "Primera", ScheduledDate: testNow,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.AssemblyNumber != 1 {
		t.Fatalf("numbering must be per condominium, got %d", a.AssemblyNumber)
	}
}

func TestQuorumFromAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10, 6)
	a := f.assembly(t)

	for i := 0; i < 6; i++ {
		_, err := f.svc.RecordAttendance(ctx, a.AssemblyID, dto.AttendanceRequest{
			ResidentID: f.residents[i].ResidentID,
			Attended:   i < 4,
		})
		if err != nil {
			t.Fatalf("attendance %d: %v", i, err)
		}
	}

	detail, err := f.svc.GetAssemblyDetail(ctx, a.AssemblyID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.AssemblyCurrentQuorum != 40.0 || detail.AttendeeCount != 4 || detail.TotalUnits != 10 {
		t.Fatalf("quorum = %v (%d/%d), want 40", detail.AssemblyCurrentQuorum, detail.AttendeeCount, detail.TotalUnits)
	}
	if detail.QuorumReached {
		t.Fatal("40% must not reach the default 50% quorum")
	}

	var stored model.Assembly
	f.db.First(&stored, "assembly_id = ?", a.AssemblyID)
	if stored.AssemblyCurrentQuorum != 40.0 {
		t.Fatalf("persisted quorum = %v, want 40", stored.AssemblyCurrentQuorum)
	}
}

func TestAttendanceConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, 1)
	a := f.assembly(t)
	req := dto.AttendanceRequest{ResidentID: f.residents[0].ResidentID}

	att, err := f.svc.RecordAttendance(ctx, a.AssemblyID, req)
	if err != nil {
		t.Fatal(err)
	}
	if att.AttendanceConfirmedAt != nil {
		t.Fatal("absent resident must not be confirmed")
	}

	req.Attended = true
	att, err = f.svc.RecordAttendance(ctx, a.AssemblyID, req)
	if err != nil {
		t.Fatal(err)
	}
	if att.AttendanceConfirmedAt == nil || !att.AttendanceConfirmedAt.Equal(testNow) {
		t.Fatalf("confirmed_at = %v, want %v", att.AttendanceConfirmedAt, testNow)
	}

	rows, err := f.svc.ListAttendance(ctx, a.AssemblyID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("attendance rows = %d, want 1", len(rows))
	}

	req.Attended = false
	att, err = f.svc.RecordAttendance(ctx, a.AssemblyID, req)
	if err != nil {
		t.Fatal(err)
	}
	if att.AttendanceConfirmedAt != nil {
		t.Fatal("confirmation must be cleared when attendance is withdrawn")
	}
}

func TestCastVoteTally(t *testing.T) {
	f := newFixture(t, 3, 3)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID, model.VoteOption{Key: "a"}, model.VoteOption{Key: "b"})

	f.cast(t, v.VoteID, 0, "a")
	f.cast(t, v.VoteID, 1, "a")
	res := f.cast(t, v.VoteID, 2, "b")

	got := res.Vote
	if got.OptionVotes["a"] != 2 || got.OptionVotes["b"] != 1 || got.TotalVotes != 3 || got.YesVotes != 0 {
		t.Fatalf("tally = %+v", got)
	}

	stored, _, err := f.svc.FindVote(context.Background(), v.VoteID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.VoteTotalVotes != 3 {
		t.Fatalf("persisted total = %d, want 3", stored.VoteTotalVotes)
	}
}

func TestRecastUpdatesExistingBallot(t *testing.T) {
	f := newFixture(t, 2, 2)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID)

	f.cast(t, v.VoteID, 0, "yes")
	f.cast(t, v.VoteID, 0, "no")
	f.cast(t, v.VoteID, 0, "abstención")
	res := f.cast(t, v.VoteID, 1, "sí")

	var records int64
	f.db.Model(&model.VoteRecord{}).
		Where("vote_record_vote_id = ? AND vote_record_resident_id = ?", v.VoteID, f.residents[0].ResidentID).
		Count(&records)
	if records != 1 {
		t.Fatalf("records for resident = %d, want 1", records)
	}

	got := res.Vote
	if got.TotalVotes != 2 || got.YesVotes != 1 || got.NoVotes != 0 || got.AbstainVotes != 1 {
		t.Fatalf("tally = %+v", got)
	}
}

func TestCompletedAssemblyIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, 1)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID)

	status := model.AssemblyStatusInProgress
	started, err := f.svc.UpdateAssembly(ctx, a.AssemblyID, dto.UpdateAssemblyRequest{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if started.AssemblyStartedAt == nil {
		t.Fatal("started_at must be set on first in_progress")
	}

	status = model.AssemblyStatusCompleted
	done, err := f.svc.UpdateAssembly(ctx, a.AssemblyID, dto.UpdateAssemblyRequest{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if done.AssemblyEndedAt == nil || !done.AssemblyStartedAt.Equal(*started.AssemblyStartedAt) {
		t.Fatal("completion must set ended_at and keep started_at")
	}

	_, err = f.svc.CastVote(ctx, v.VoteID, dto.CastVoteRequest{ResidentID: f.residents[0].ResidentID, Value: "yes"})
	mustKind(t, err, helper.KindValidation)

	_, err = f.svc.UpdateMinutes(ctx, a.AssemblyID, "acta final")
	mustKind(t, err, helper.KindValidation)

	_, err = f.svc.CreateVote(ctx, a.AssemblyID, dto.CreateVoteRequest{Title: "Otra"})
	mustKind(t, err, helper.KindValidation)

	title := "cambio"
	_, err = f.svc.UpdateVote(ctx, v.VoteID, dto.UpdateVoteRequest{Title: &title})
	mustKind(t, err, helper.KindValidation)
}

func TestCastVoteGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, 1)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID)

	stranger := testutil.CreateCondominium(t, f.db, "Ajeno")
	outsiders := testutil.CreateResidents(t, f.db, stranger.CondominiumID, 1)
	_, err := f.svc.CastVote(ctx, v.VoteID, dto.CastVoteRequest{ResidentID: outsiders[0].ResidentID, Value: "yes"})
	mustKind(t, err, helper.KindValidation)

	_, err = f.svc.CastVote(ctx, uuid.New(), dto.CastVoteRequest{ResidentID: f.residents[0].ResidentID, Value: "yes"})
	mustKind(t, err, helper.KindNotFound)

	inactive := false
	if _, err := f.svc.UpdateVote(ctx, v.VoteID, dto.UpdateVoteRequest{IsActive: &inactive}); err != nil {
		t.Fatal(err)
	}
	_, err = f.svc.CastVote(ctx, v.VoteID, dto.CastVoteRequest{ResidentID: f.residents[0].ResidentID, Value: "yes"})
	mustKind(t, err, helper.KindValidation)
}

func TestMalformedOptionsFallBackToEmptyOptionVotes(t *testing.T) {
	f := newFixture(t, 1, 1)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID, model.VoteOption{Key: "a"})

	if err := f.db.Model(&model.Vote{}).Where("vote_id = ?", v.VoteID).
		Update("vote_options", datatypes.JSON(`{"not":"a list"}`)).Error; err != nil {
		t.Fatal(err)
	}

	res := f.cast(t, v.VoteID, 0, "yes")
	if len(res.Vote.OptionVotes) != 0 {
		t.Fatalf("option votes = %v, want empty", res.Vote.OptionVotes)
	}
	if res.Vote.YesVotes != 1 || res.Vote.TotalVotes != 1 {
		t.Fatalf("legacy tally = %+v", res.Vote)
	}
}

func TestDeleteAssemblyRemovesChildren(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, 1)
	a := f.assembly(t)
	v := f.vote(t, a.AssemblyID)
	f.cast(t, v.VoteID, 0, "yes")

	if err := f.svc.DeleteAssembly(ctx, a.AssemblyID); err != nil {
		t.Fatal(err)
	}
	var n int64
	f.db.Model(&model.VoteRecord{}).Count(&n)
	if n != 0 {
		t.Fatalf("vote records left = %d", n)
	}
	_, err := f.svc.FindAssembly(ctx, a.AssemblyID)
	mustKind(t, err, helper.KindNotFound)
}
