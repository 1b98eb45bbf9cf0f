package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPlanBilling(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	targets := make([]BillingTarget, 5)
	for i := range ids {
		ids[i] = uuid.New()
		targets[i] = BillingTarget{PropertyID: ids[i], PropertyCode: string(rune('A' + i))}
	}

	plan := PlanBilling(targets, []uuid.UUID{ids[1], ids[3], uuid.New()})
	if len(plan.ToCreate) != 3 {
		t.Fatalf("to create = %d, want 3", len(plan.ToCreate))
	}
	if len(plan.Skipped) != 2 || plan.Skipped[0] != ids[1] || plan.Skipped[1] != ids[3] {
		t.Fatalf("skipped = %v, want [%s %s]", plan.Skipped, ids[1], ids[3])
	}
	for i, want := range []uuid.UUID{ids[0], ids[2], ids[4]} {
		if plan.ToCreate[i].PropertyID != want {
			t.Errorf("to create[%d] = %s, want %s", i, plan.ToCreate[i].PropertyID, want)
		}
	}
}

func TestPlanBillingDeduplicatesTargets(t *testing.T) {
	id := uuid.New()
	plan := PlanBilling([]BillingTarget{{PropertyID: id}, {PropertyID: id}}, nil)
	if len(plan.ToCreate) != 1 {
		t.Fatalf("duplicate targets must collapse, got %d", len(plan.ToCreate))
	}
}

func TestBillingDates(t *testing.T) {
	tests := []struct {
		month, year, days int
		wantDue           time.Time
	}{
		{3, 2024, 15, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)},
		{2, 2024, 30, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)},
		{12, 2023, 0, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		issue, due := BillingDates(tt.month, tt.year, tt.days)
		if issue.Day() != 1 || int(issue.Month()) != tt.month || issue.Year() != tt.year {
			t.Errorf("issue = %s, want first day of %d/%d", issue, tt.month, tt.year)
		}
		if !due.Equal(tt.wantDue) {
			t.Errorf("due = %s, want %s", due, tt.wantDue)
		}
	}
}
