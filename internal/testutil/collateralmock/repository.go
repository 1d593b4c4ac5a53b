package collateralmock

import (
	"context"

	domain "pawn-settlement/internal/domain/collateral"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, c *domain.Collateral) error
	GetByLoanIDFn func(ctx context.Context, loanNumericID uint64) (*domain.Collateral, error)
	SaveFn        func(ctx context.Context, c *domain.Collateral) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Collateral) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Collateral, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, c *domain.Collateral) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}
