package txmock

import (
	"context"

	domain "pawn-settlement/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Appended holds every row passed to Append when AppendFn is unset.
type Repo struct {
	AppendFn      func(ctx context.Context, t *domain.PaymentTransaction) error
	ListByCycleFn func(ctx context.Context, cycleID uint64) ([]domain.PaymentTransaction, error)
	SumByCycleFn  func(ctx context.Context, cycleID uint64, typ domain.Type) (int64, error)

	Appended []domain.PaymentTransaction
}

func (m *Repo) Append(ctx context.Context, t *domain.PaymentTransaction) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, t)
	}
	m.Appended = append(m.Appended, *t)
	return nil
}

func (m *Repo) ListByCycle(ctx context.Context, cycleID uint64) ([]domain.PaymentTransaction, error) {
	if m.ListByCycleFn != nil {
		return m.ListByCycleFn(ctx, cycleID)
	}
	return nil, context.Canceled
}

func (m *Repo) SumByCycle(ctx context.Context, cycleID uint64, typ domain.Type) (int64, error) {
	if m.SumByCycleFn != nil {
		return m.SumByCycleFn(ctx, cycleID, typ)
	}
	return 0, context.Canceled
}
