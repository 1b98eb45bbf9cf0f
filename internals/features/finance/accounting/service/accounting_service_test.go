package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"condominio_backend/internals/features/finance/accounting/dto"
	"condominio_backend/internals/features/finance/accounting/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func str(s string) *string { return &s }

type fixture struct {
	db      *gorm.DB
	svc     *AccountingService
	condoID uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	condo := testutil.CreateCondominium(t, db, "Torre Sur")
	return fixture{db: db, svc: NewAccountingService(db, helper.FixedClock{T: testNow}), condoID: condo.CondominiumID}
}

func (f fixture) tx(t *testing.T, typ, category string, amount int64, on time.Time, status string) *model.AccountingTransaction {
	t.Helper()
	ctx := context.Background()
	row, err := f.svc.CreateTransaction(ctx, f.condoID, dto.CreateTransactionRequest{
		Type:            typ,
		Category:        str(category),
		Description:     category + " " + typ,
		Amount:          d(amount),
		TransactionDate: on,
	}, nil)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if status != model.TransactionStatusPending {
		row, err = f.svc.UpdateTransaction(ctx, row.TransactionID, dto.UpdateTransactionRequest{Status: &status})
		if err != nil {
			t.Fatalf("update status: %v", err)
		}
	}
	return row
}

func mustKind(t *testing.T, err error, kind helper.ErrorKind) {
	t.Helper()
	if !helper.IsKind(err, kind) {
		t.Fatalf("expected error kind %v, got %v", kind, err)
	}
}

func TestSummarizeTransactions(t *testing.T) {
	cat := func(s string) *string { return &s }
	rows := []model.AccountingTransaction{
		{TransactionType: model.TransactionTypeIncome, TransactionCategory: cat("administration"), TransactionAmount: d(1000), TransactionStatus: model.TransactionStatusCompleted},
		{TransactionType: model.TransactionTypeIncome, TransactionCategory: cat("administration"), TransactionAmount: d(500), TransactionStatus: model.TransactionStatusPending},
		{TransactionType: model.TransactionTypeExpense, TransactionCategory: cat("cleaning"), TransactionAmount: d(300), TransactionStatus: model.TransactionStatusCompleted},
		{TransactionType: model.TransactionTypeExpense, TransactionAmount: d(50), TransactionStatus: model.TransactionStatusCompleted},
		{TransactionType: model.TransactionTypeExpense, TransactionCategory: cat("cleaning"), TransactionAmount: d(999), TransactionStatus: model.TransactionStatusCancelled},
	}

	got := SummarizeTransactions(rows, nil, nil)
	if !got.Income.Equal(d(1500)) || !got.Expense.Equal(d(350)) || !got.Balance.Equal(d(1150)) {
		t.Fatalf("income=%s expense=%s balance=%s", got.Income, got.Expense, got.Balance)
	}
	if !got.Pending.Equal(d(500)) {
		t.Fatalf("pending = %s, want 500", got.Pending)
	}
	want := []dto.CategoryTotal{
		{Type: "expense", Category: "cleaning", Total: d(300), Count: 1},
		{Type: "expense", Category: uncategorized, Total: d(50), Count: 1},
		{Type: "income", Category: "administration", Total: d(1500), Count: 2},
	}
	if len(got.Categories) != len(want) {
		t.Fatalf("categories = %+v", got.Categories)
	}
	for i, w := range want {
		g := got.Categories[i]
		if g.Type != w.Type || g.Category != w.Category || !g.Total.Equal(w.Total) || g.Count != w.Count {
			t.Errorf("category[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateCondominium(t, f.db, "Otro")
	foreign := testutil.CreateProperties(t, f.db, other.CondominiumID, nil, "X", 1)[0]

	base := dto.CreateTransactionRequest{
		Type:            model.TransactionTypeExpense,
		Description:     "gardening",
		Amount:          d(100),
		TransactionDate: testNow,
	}

	zero := base
	zero.Amount = decimal.Zero
	_, err := f.svc.CreateTransaction(ctx, f.condoID, zero, nil)
	mustKind(t, err, helper.KindValidation)

	withForeign := base
	withForeign.PropertyID = &foreign.PropertyID
	_, err = f.svc.CreateTransaction(ctx, f.condoID, withForeign, nil)
	mustKind(t, err, helper.KindValidation)

	_, err = f.svc.CreateTransaction(ctx, uuid.New(), base, nil)
	mustKind(t, err, helper.KindNotFound)

	row, err := f.svc.CreateTransaction(ctx, f.condoID, base, nil)
	if err != nil {
		t.Fatal(err)
	}
	if row.TransactionStatus != model.TransactionStatusPending {
		t.Fatalf("new transaction status = %s, want pending", row.TransactionStatus)
	}
}

func TestListTransactionsFiltersByPeriod(t *testing.T) {
	f := newFixture(t)
	f.tx(t, model.TransactionTypeIncome, "administration", 100, time.Date(2024, time.May, 31, 12, 0, 0, 0, time.UTC), model.TransactionStatusCompleted)
	f.tx(t, model.TransactionTypeIncome, "administration", 200, time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC), model.TransactionStatusCompleted)
	f.tx(t, model.TransactionTypeExpense, "cleaning", 50, time.Date(2024, time.June, 30, 23, 0, 0, 0, time.UTC), model.TransactionStatusPending)
	f.tx(t, model.TransactionTypeExpense, "cleaning", 70, time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC), model.TransactionStatusCancelled)

	from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	q := dto.ListTransactionQuery{CondominiumID: f.condoID, From: &from, To: &to}

	rows, total, err := f.svc.ListTransactions(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("june rows = %d (total %d), want 3", len(rows), total)
	}

	sum, err := f.svc.Summarize(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Income.Equal(d(200)) || !sum.Expense.Equal(d(50)) || !sum.Pending.Equal(d(50)) {
		t.Fatalf("summary = income %s expense %s pending %s", sum.Income, sum.Expense, sum.Pending)
	}
}

func TestBudgetApprovalFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	b, err := f.svc.CreateBudget(ctx, f.condoID, dto.CreateBudgetRequest{Year: 2024, Category: "maintenance", Amount: d(1000)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.svc.CreateBudget(ctx, f.condoID, dto.CreateBudgetRequest{Year: 2024, Category: "maintenance", Amount: d(5)})
	mustKind(t, err, helper.KindConflict)

	approve := true
	_, err = f.svc.UpdateBudget(ctx, b.BudgetID, dto.UpdateBudgetRequest{IsApproved: &approve}, actor, false)
	mustKind(t, err, helper.KindForbidden)

	got, err := f.svc.UpdateBudget(ctx, b.BudgetID, dto.UpdateBudgetRequest{IsApproved: &approve}, actor, true)
	if err != nil {
		t.Fatal(err)
	}
	if !got.BudgetIsApproved || got.BudgetApprovedBy == nil || *got.BudgetApprovedBy != actor || got.BudgetApprovedAt == nil {
		t.Fatalf("approval not stamped: %+v", got)
	}

	amount := d(1200)
	_, err = f.svc.UpdateBudget(ctx, b.BudgetID, dto.UpdateBudgetRequest{Amount: &amount}, actor, false)
	mustKind(t, err, helper.KindForbidden)

	got, err = f.svc.UpdateBudget(ctx, b.BudgetID, dto.UpdateBudgetRequest{Amount: &amount}, actor, true)
	if err != nil {
		t.Fatal(err)
	}
	if !got.BudgetAmount.Equal(d(1200)) || !got.BudgetIsApproved {
		t.Fatalf("manager edit = %+v", got)
	}
}

func TestBudgetExecution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.CreateBudget(ctx, f.condoID, dto.CreateBudgetRequest{Year: 2024, Category: "maintenance", Amount: d(1000)}); err != nil {
		t.Fatal(err)
	}
	f.tx(t, model.TransactionTypeExpense, "maintenance", 300, time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC), model.TransactionStatusCompleted)
	f.tx(t, model.TransactionTypeExpense, "maintenance", 100, time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), model.TransactionStatusPending)
	f.tx(t, model.TransactionTypeExpense, "maintenance", 400, time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC), model.TransactionStatusCompleted)

	rows, err := f.svc.BudgetExecution(ctx, f.condoID, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].Executed.Equal(d(300)) || !rows[0].Remaining.Equal(d(700)) {
		t.Fatalf("execution = %+v", rows[0])
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	f := newFixture(t)
	mustKind(t, f.svc.DeleteTransaction(context.Background(), uuid.New()), helper.KindNotFound)
}
