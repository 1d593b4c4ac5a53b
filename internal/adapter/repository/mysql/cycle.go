package mysql

import (
	"context"

	cycleDomain "pawn-settlement/internal/domain/cycle"

	"gorm.io/gorm"
)

type CycleRepository struct{ db *gorm.DB }

func NewCycleRepository(db *gorm.DB) *CycleRepository { return &CycleRepository{db: db} }

func (r *CycleRepository) Create(ctx context.Context, c *cycleDomain.PaymentCycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CycleRepository) CreatePeriods(ctx context.Context, periods []cycleDomain.PaymentPeriod) error {
	if len(periods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&periods).Error
}

func (r *CycleRepository) GetByLoanAndNumber(ctx context.Context, loanID uint64, cycleNumber int) (*cycleDomain.PaymentCycle, error) {
	var out cycleDomain.PaymentCycle
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND cycle_number = ?", loanID, cycleNumber).
		First(&out)
	return &out, res.Error
}

func (r *CycleRepository) ListPeriods(ctx context.Context, cycleID uint64, pt cycleDomain.PeriodType) ([]cycleDomain.PaymentPeriod, error) {
	var out []cycleDomain.PaymentPeriod
	res := r.db.WithContext(ctx).
		Where("cycle_id = ? AND period_type = ?", cycleID, pt).
		Order("period_number ASC").
		Find(&out)
	return out, res.Error
}

func (r *CycleRepository) IncrementInterestPaid(ctx context.Context, cycleID uint64, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&cycleDomain.PaymentCycle{}).
		Where("id = ?", cycleID).
		UpdateColumn("total_interest_paid", gorm.Expr("total_interest_paid + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
