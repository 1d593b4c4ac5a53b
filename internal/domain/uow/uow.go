package uow

import (
	"context"

	"pawn-settlement/internal/domain/collateral"
	"pawn-settlement/internal/domain/cycle"
	"pawn-settlement/internal/domain/loan"
	"pawn-settlement/internal/domain/transaction"
)

// Repos are bound to the same store transaction.
type Repos struct {
	Loans        loan.Repository
	Collaterals  collateral.Repository
	Cycles       cycle.Repository
	Transactions transaction.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
