package transaction

import "context"

// Repository exposes no update or delete.
type Repository interface {
	Append(ctx context.Context, t *PaymentTransaction) error
	ListByCycle(ctx context.Context, cycleID uint64) ([]PaymentTransaction, error)
	SumByCycle(ctx context.Context, cycleID uint64, typ Type) (int64, error)
}
