package collateral

import (
	"time"

	"gorm.io/gorm"
)

// Collateral records the pledged asset and its appraisal at disbursement.
type Collateral struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	CollateralID string `gorm:"column:collateral_id;type:char(32);not null;uniqueIndex:ux_collaterals_collateral_id"`
	// FK to loans.id; one pledged asset per loan.
	LoanID              uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_collaterals_loan"`
	Description         string         `gorm:"column:description;type:text;not null"`
	AppraisedValue      int64          `gorm:"column:appraised_value;not null"`
	AppraiserEmployeeID string         `gorm:"column:appraiser_employee_id;type:char(32);not null"`
	AppraisalDate       time.Time      `gorm:"column:appraisal_date;type:date;not null"`
	AppraisalFee        int64          `gorm:"column:appraisal_fee;not null;default:0"`
	InCustody           bool           `gorm:"column:in_custody;not null;default:false"`
	ReleasedAt          *time.Time     `gorm:"column:released_at"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Collateral) TableName() string { return "collaterals" }
