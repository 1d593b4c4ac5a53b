// Package ledger is the read side of the settlement engine. Every call
// recomputes from stored rows.
package ledger

import (
	"context"
	"errors"
	"time"

	cycleDomain "pawn-settlement/internal/domain/cycle"
	domainLoan "pawn-settlement/internal/domain/loan"
	txDomain "pawn-settlement/internal/domain/transaction"
	cycleuc "pawn-settlement/internal/usecase/cycle"

	"gorm.io/gorm"
)

// Materializer creates a missing cycle on first read.
type Materializer interface {
	Materialize(ctx context.Context, loanID string, cycleNumber int, anchor time.Time) (uint64, error)
}

type Usecase struct {
	loans  domainLoan.Repository
	cycles cycleDomain.Repository
	txs    txDomain.Repository
	mat    Materializer
}

func NewUsecase(loans domainLoan.Repository, cycles cycleDomain.Repository, txs txDomain.Repository, mat Materializer) *Usecase {
	return &Usecase{loans: loans, cycles: cycles, txs: txs, mat: mat}
}

// View projects the active cycle of loanID. A cycle that was never
// materialized is created first, anchored at cycleuc.DefaultAnchor.
func (u *Usecase) View(ctx context.Context, loanID string) (*View, error) {
	l, c, err := u.activeCycle(ctx, loanID)
	if err != nil {
		return nil, err
	}
	periods, err := u.cycles.ListPeriods(ctx, c.ID, cycleDomain.PeriodCurrent)
	if err != nil {
		return nil, domainLoan.Persist("list periods", err)
	}
	return Project(l, c, periods), nil
}

// Transactions lists the append-only log of the active cycle, oldest first.
func (u *Usecase) Transactions(ctx context.Context, loanID string) (*History, error) {
	l, c, err := u.activeCycle(ctx, loanID)
	if err != nil {
		return nil, err
	}
	rows, err := u.txs.ListByCycle(ctx, c.ID)
	if err != nil {
		return nil, domainLoan.Persist("list transactions", err)
	}
	out := &History{LoanID: l.LoanID, CycleNumber: c.CycleNumber, Transactions: make([]TransactionDTO, 0, len(rows))}
	for _, t := range rows {
		out.Transactions = append(out.Transactions, TransactionDTO{
			TransactionID: t.TransactionID,
			Type:          string(t.Type),
			Amount:        t.Amount,
			Notes:         t.Notes,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, nil
}

// Verify compares the active cycle's cached interest total with the sum of
// its interest_payment rows. Use Reconciliation.Err to get a drift error.
func (u *Usecase) Verify(ctx context.Context, loanID string) (*Reconciliation, error) {
	l, c, err := u.activeCycle(ctx, loanID)
	if err != nil {
		return nil, err
	}
	logged, err := u.txs.SumByCycle(ctx, c.ID, txDomain.TypeInterestPayment)
	if err != nil {
		return nil, domainLoan.Persist("sum transactions", err)
	}
	return &Reconciliation{
		LoanID:      l.LoanID,
		CycleNumber: c.CycleNumber,
		Cached:      c.TotalInterestPaid,
		Logged:      logged,
		Consistent:  c.TotalInterestPaid == logged,
		cycleID:     c.ID,
	}, nil
}

func (u *Usecase) activeCycle(ctx context.Context, loanID string) (*domainLoan.Loan, *cycleDomain.PaymentCycle, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, domainLoan.FromStore("load loan", err)
	}

	c, err := u.cycles.GetByLoanAndNumber(ctx, l.ID, l.CurrentCycle)
	if err == nil {
		return l, c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, domainLoan.Persist("load cycle", err)
	}

	if _, err := u.mat.Materialize(ctx, l.LoanID, l.CurrentCycle, cycleuc.DefaultAnchor(l, l.CurrentCycle)); err != nil {
		return nil, nil, err
	}
	c, err = u.cycles.GetByLoanAndNumber(ctx, l.ID, l.CurrentCycle)
	if err != nil {
		return nil, nil, domainLoan.Persist("reload cycle", err)
	}
	return l, c, nil
}

// Project derives the ledger view from rows. totalDue sums fee_amount over
// the current periods; remaining never goes below zero.
func Project(l *domainLoan.Loan, c *cycleDomain.PaymentCycle, periods []cycleDomain.PaymentPeriod) *View {
	v := &View{
		LoanID:      l.LoanID,
		Product:     string(l.Product),
		State:       string(l.State),
		CycleNumber: c.CycleNumber,
		StartDate:   c.StartDate.Format(time.DateOnly),
		EndDate:     c.EndDate.Format(time.DateOnly),
		Periods:     make([]PeriodDTO, 0, len(periods)),
		TotalPaid:   c.TotalInterestPaid,
	}
	for _, p := range periods {
		v.TotalDue += p.FeeAmount
		v.Periods = append(v.Periods, PeriodDTO{
			PeriodNumber: p.PeriodNumber,
			MilestoneDay: p.MilestoneDay,
			DueDate:      p.DueDate.Format(time.DateOnly),
			Principal:    p.Principal,
			Interest:     p.Interest,
			RentalFee:    p.RentalFee,
			FeeAmount:    p.FeeAmount,
			TotalDue:     p.TotalDue,
			Status:       string(p.Status),
		})
	}
	v.Remaining = max(0, v.TotalDue-v.TotalPaid)
	return v
}
