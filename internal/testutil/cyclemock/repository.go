package cyclemock

import (
	"context"

	domain "pawn-settlement/internal/domain/cycle"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, c *domain.PaymentCycle) error
	CreatePeriodsFn         func(ctx context.Context, periods []domain.PaymentPeriod) error
	GetByLoanAndNumberFn    func(ctx context.Context, loanID uint64, cycleNumber int) (*domain.PaymentCycle, error)
	ListPeriodsFn           func(ctx context.Context, cycleID uint64, pt domain.PeriodType) ([]domain.PaymentPeriod, error)
	IncrementInterestPaidFn func(ctx context.Context, cycleID uint64, amount int64) error
}

func (m *Repo) Create(ctx context.Context, c *domain.PaymentCycle) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) CreatePeriods(ctx context.Context, periods []domain.PaymentPeriod) error {
	if m.CreatePeriodsFn != nil {
		return m.CreatePeriodsFn(ctx, periods)
	}
	return nil
}

func (m *Repo) GetByLoanAndNumber(ctx context.Context, loanID uint64, cycleNumber int) (*domain.PaymentCycle, error) {
	if m.GetByLoanAndNumberFn != nil {
		return m.GetByLoanAndNumberFn(ctx, loanID, cycleNumber)
	}
	return nil, context.Canceled
}

func (m *Repo) ListPeriods(ctx context.Context, cycleID uint64, pt domain.PeriodType) ([]domain.PaymentPeriod, error) {
	if m.ListPeriodsFn != nil {
		return m.ListPeriodsFn(ctx, cycleID, pt)
	}
	return nil, context.Canceled
}

func (m *Repo) IncrementInterestPaid(ctx context.Context, cycleID uint64, amount int64) error {
	if m.IncrementInterestPaidFn != nil {
		return m.IncrementInterestPaidFn(ctx, cycleID, amount)
	}
	return nil
}
