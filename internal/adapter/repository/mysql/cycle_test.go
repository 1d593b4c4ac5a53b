package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	cycleDomain "pawn-settlement/internal/domain/cycle"

	"gorm.io/gorm"
)

func makeCycle(loanNumericID uint64, n int, start time.Time) *cycleDomain.PaymentCycle {
	return &cycleDomain.PaymentCycle{
		LoanID:           loanNumericID,
		CycleNumber:      n,
		PrincipalAtStart: 10_000_000,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 30),
	}
}

func makePeriods(cycleID uint64, pt cycleDomain.PeriodType, start time.Time) []cycleDomain.PaymentPeriod {
	days := []int{7, 18, 30}
	out := make([]cycleDomain.PaymentPeriod, 0, len(days))
	for i, d := range days {
		out = append(out, cycleDomain.PaymentPeriod{
			CycleID:      cycleID,
			PeriodType:   pt,
			PeriodNumber: i + 1,
			MilestoneDay: d,
			DueDate:      start.AddDate(0, 0, d),
			FeeAmount:    int64(100 * (i + 1)),
			TotalDue:     int64(1000 * (i + 1)),
			Status:       cycleDomain.StatusPending,
		})
	}
	return out
}

func TestCycle_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := makeCycle(42, 1, start)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("Create did not set ID")
	}

	got, err := repo.GetByLoanAndNumber(ctx, 42, 1)
	if err != nil {
		t.Fatalf("GetByLoanAndNumber: %v", err)
	}
	if got.ID != c.ID || !got.EndDate.Equal(start.AddDate(0, 0, 30)) {
		t.Errorf("unexpected cycle: %+v", got)
	}

	if _, err := repo.GetByLoanAndNumber(ctx, 42, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing cycle, got %v", err)
	}
}

func TestCycle_UniquePerLoanAndNumber(t *testing.T) {
	db := openTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	start := time.Now().UTC()
	if err := repo.Create(ctx, makeCycle(7, 1, start)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeCycle(7, 1, start)); err == nil {
		t.Fatalf("expected unique violation on (loan_id, cycle_number)")
	}
	if err := repo.Create(ctx, makeCycle(7, 2, start)); err != nil {
		t.Fatalf("second cycle number should be allowed: %v", err)
	}
}

func TestCycle_PeriodsByType(t *testing.T) {
	db := openTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := makeCycle(1, 1, start)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	periods := append(
		makePeriods(c.ID, cycleDomain.PeriodNext, start.AddDate(0, 0, 30)),
		makePeriods(c.ID, cycleDomain.PeriodCurrent, start)...,
	)
	if err := repo.CreatePeriods(ctx, periods); err != nil {
		t.Fatalf("CreatePeriods: %v", err)
	}

	cur, err := repo.ListPeriods(ctx, c.ID, cycleDomain.PeriodCurrent)
	if err != nil {
		t.Fatalf("ListPeriods: %v", err)
	}
	if len(cur) != 3 {
		t.Fatalf("want 3 current periods, got %d", len(cur))
	}
	for i, p := range cur {
		if p.PeriodNumber != i+1 || p.PeriodType != cycleDomain.PeriodCurrent {
			t.Errorf("period %d out of order: %+v", i, p)
		}
	}
	if !cur[0].DueDate.Equal(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first due date = %v", cur[0].DueDate)
	}

	next, err := repo.ListPeriods(ctx, c.ID, cycleDomain.PeriodNext)
	if err != nil {
		t.Fatalf("ListPeriods next: %v", err)
	}
	if len(next) != 3 || !next[2].DueDate.Equal(time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected next periods: %+v", next)
	}
}

func TestCycle_DuplicatePeriodRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	start := time.Now().UTC()
	ps := makePeriods(3, cycleDomain.PeriodCurrent, start)
	if err := repo.CreatePeriods(ctx, ps); err != nil {
		t.Fatalf("CreatePeriods: %v", err)
	}
	if err := repo.CreatePeriods(ctx, makePeriods(3, cycleDomain.PeriodCurrent, start)[:1]); err == nil {
		t.Fatalf("expected unique violation on (cycle_id, period_type, period_number)")
	}
	if err := repo.CreatePeriods(ctx, nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
}

func TestCycle_IncrementInterestPaid(t *testing.T) {
	db := openTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	c := makeCycle(5, 1, time.Now().UTC())
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, amt := range []int64{100_000, 250_000} {
		if err := repo.IncrementInterestPaid(ctx, c.ID, amt); err != nil {
			t.Fatalf("IncrementInterestPaid: %v", err)
		}
	}

	got, err := repo.GetByLoanAndNumber(ctx, 5, 1)
	if err != nil {
		t.Fatalf("GetByLoanAndNumber: %v", err)
	}
	if got.TotalInterestPaid != 350_000 {
		t.Fatalf("TotalInterestPaid = %d, want 350000", got.TotalInterestPaid)
	}

	if err := repo.IncrementInterestPaid(ctx, 9999, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown cycle, got %v", err)
	}
}
