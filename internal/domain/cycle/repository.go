package cycle

import "context"

type Repository interface {
	Create(ctx context.Context, c *PaymentCycle) error
	CreatePeriods(ctx context.Context, periods []PaymentPeriod) error
	GetByLoanAndNumber(ctx context.Context, loanID uint64, cycleNumber int) (*PaymentCycle, error)
	ListPeriods(ctx context.Context, cycleID uint64, pt PeriodType) ([]PaymentPeriod, error)
	// IncrementInterestPaid adds amount to the cycle's cached total in place.
	IncrementInterestPaid(ctx context.Context, cycleID uint64, amount int64) error
}
