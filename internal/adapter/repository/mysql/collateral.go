package mysql

import (
	"context"

	collateralDomain "pawn-settlement/internal/domain/collateral"

	"gorm.io/gorm"
)

type CollateralRepository struct{ db *gorm.DB }

func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

func (r *CollateralRepository) Create(ctx context.Context, c *collateralDomain.Collateral) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CollateralRepository) Save(ctx context.Context, c *collateralDomain.Collateral) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CollateralRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*collateralDomain.Collateral, error) {
	var out collateralDomain.Collateral
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out)
	return &out, res.Error
}
