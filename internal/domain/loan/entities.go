package loan

import (
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StateDisbursed State = "disbursed"
	StateRedeemed  State = "redeemed"
)

type Loan struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID       string    `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	CustomerID   string    `gorm:"size:32;index:idx_loans_customer" json:"customer_id"`
	Principal    int64     `gorm:"not null" json:"principal"`
	Product      Product   `gorm:"size:40;not null" json:"product"`
	AppraisalFee int64     `gorm:"not null;default:0" json:"appraisal_fee"`
	NetDisbursed int64     `gorm:"not null" json:"net_disbursed"`
	DisbursedAt  time.Time `gorm:"type:date;not null" json:"disbursed_at"`
	// CurrentCycle is the active payment cycle number; renewals bump it.
	CurrentCycle   int            `gorm:"not null;default:1" json:"current_cycle"`
	State          State          `gorm:"size:16;not null;default:'disbursed'" json:"state"`
	StateUpdatedAt time.Time      `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Settleable reports whether settlement operations may still run against the loan.
func (l *Loan) Settleable() bool { return l.State == StateDisbursed }
