package mysql

import (
	"context"

	txDomain "pawn-settlement/internal/domain/transaction"

	"gorm.io/gorm"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, t *txDomain.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ListByCycle(ctx context.Context, cycleID uint64) ([]txDomain.PaymentTransaction, error) {
	var out []txDomain.PaymentTransaction
	res := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) SumByCycle(ctx context.Context, cycleID uint64, typ txDomain.Type) (int64, error) {
	var sum int64
	res := r.db.WithContext(ctx).
		Model(&txDomain.PaymentTransaction{}).
		Where("cycle_id = ? AND transaction_type = ?", cycleID, typ).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	return sum, res.Error
}
