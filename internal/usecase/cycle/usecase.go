// Package cycle materializes payment cycles and their periods from the fee schedule.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	cycleDomain "pawn-settlement/internal/domain/cycle"
	domainLoan "pawn-settlement/internal/domain/loan"
	"pawn-settlement/internal/domain/schedule"
	"pawn-settlement/internal/domain/uow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	uow uow.UnitOfWork
	log logrus.FieldLogger
}

func NewUsecase(tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

// Materialize creates cycle cycleNumber for loanID anchored at anchor and
// returns its ID. An existing cycle is returned unchanged.
func (u *Usecase) Materialize(ctx context.Context, loanID string, cycleNumber int, anchor time.Time) (uint64, error) {
	if cycleNumber < 1 {
		return 0, fmt.Errorf("%w: cycle number must be at least 1, got %d", domainLoan.ErrInvalidInput, cycleNumber)
	}

	var (
		cycleID uint64
		created bool
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		c, isNew, err := Ensure(ctx, r.Cycles, l, cycleNumber, anchor)
		if err != nil {
			return err
		}
		cycleID, created = c.ID, isNew
		return nil
	})
	if err != nil {
		return 0, domainLoan.FromStore("materialize cycle", err)
	}
	if created {
		u.log.WithFields(logrus.Fields{
			"loan_id": loanID,
			"cycle":   cycleNumber,
			"anchor":  DateOf(anchor).Format(time.DateOnly),
		}).Info("payment cycle materialized")
	}
	return cycleID, nil
}

// Ensure returns cycle n of l, creating it and its current and next periods
// when absent. It must run inside the caller's store transaction.
func Ensure(ctx context.Context, cycles cycleDomain.Repository, l *domainLoan.Loan, n int, anchor time.Time) (*cycleDomain.PaymentCycle, bool, error) {
	existing, err := cycles.GetByLoanAndNumber(ctx, l.ID, n)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, domainLoan.Persist("load cycle", err)
	}

	sched, err := schedule.Compute(l.Principal, l.Product)
	if err != nil {
		return nil, false, err
	}

	start := DateOf(anchor)
	c := &cycleDomain.PaymentCycle{
		LoanID:           l.ID,
		CycleNumber:      n,
		PrincipalAtStart: l.Principal,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, schedule.CycleDays),
	}
	if err := cycles.Create(ctx, c); err != nil {
		return nil, false, domainLoan.Persist("create cycle", err)
	}

	periods := append(
		Periods(c.ID, cycleDomain.PeriodCurrent, sched, start),
		Periods(c.ID, cycleDomain.PeriodNext, sched, c.EndDate)...,
	)
	if err := cycles.CreatePeriods(ctx, periods); err != nil {
		return nil, false, domainLoan.Persist("create periods", err)
	}
	return c, true, nil
}

// Periods turns each milestone into a pending period due anchor+day.
func Periods(cycleID uint64, pt cycleDomain.PeriodType, s schedule.Schedule, anchor time.Time) []cycleDomain.PaymentPeriod {
	out := make([]cycleDomain.PaymentPeriod, 0, len(s.Milestones))
	for _, m := range s.Milestones {
		out = append(out, cycleDomain.PaymentPeriod{
			CycleID:      cycleID,
			PeriodType:   pt,
			PeriodNumber: m.Number,
			MilestoneDay: m.Day,
			DueDate:      DateOf(anchor).AddDate(0, 0, m.Day),
			Principal:    m.Principal,
			Interest:     m.Interest,
			RentalFee:    m.RentalFee,
			FeeAmount:    m.Fee,
			TotalDue:     m.Total,
			Status:       cycleDomain.StatusPending,
		})
	}
	return out
}

// DefaultAnchor is the start date assumed for cycle n when it was never
// materialized explicitly: cycles follow each other back to back from disbursement.
func DefaultAnchor(l *domainLoan.Loan, n int) time.Time {
	return DateOf(l.DisbursedAt).AddDate(0, 0, schedule.CycleDays*(n-1))
}

// DateOf drops the time of day, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
