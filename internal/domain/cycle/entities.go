package cycle

import (
	"time"
)

type PeriodType string

const (
	// PeriodCurrent periods are binding; payments are measured against them.
	PeriodCurrent PeriodType = "current"
	// PeriodNext periods describe a hypothetical renewal and are informational only.
	PeriodNext PeriodType = "next"
)

type PeriodStatus string

const (
	StatusPending PeriodStatus = "pending"
	StatusPaid    PeriodStatus = "paid"
	StatusOverdue PeriodStatus = "overdue"
)

// PaymentCycle is one borrowing cycle of a loan. Everything but
// TotalInterestPaid is frozen once its periods exist.
type PaymentCycle struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID            uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_cycles_loan_cycle" json:"-"`
	CycleNumber       int       `gorm:"column:cycle_number;not null;uniqueIndex:ux_cycles_loan_cycle" json:"cycle_number"`
	PrincipalAtStart  int64     `gorm:"column:principal_at_start;not null" json:"principal_at_start"`
	StartDate         time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate           time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`
	TotalInterestPaid int64     `gorm:"column:total_interest_paid;not null;default:0" json:"total_interest_paid"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentCycle) TableName() string { return "payment_cycles" }

type PaymentPeriod struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CycleID      uint64     `gorm:"column:cycle_id;not null;uniqueIndex:ux_periods_cycle_type_number" json:"-"`
	PeriodType   PeriodType `gorm:"column:period_type;size:8;not null;uniqueIndex:ux_periods_cycle_type_number" json:"period_type"`
	PeriodNumber int        `gorm:"column:period_number;not null;uniqueIndex:ux_periods_cycle_type_number" json:"period_number"`
	MilestoneDay int        `gorm:"column:milestone_day;not null" json:"milestone_day"`
	DueDate      time.Time  `gorm:"column:due_date;type:date;not null" json:"due_date"`
	// Principal/Interest/RentalFee are only non-zero for installment products.
	Principal int64        `gorm:"column:principal;not null;default:0" json:"principal"`
	Interest  int64        `gorm:"column:interest;not null;default:0" json:"interest"`
	RentalFee int64        `gorm:"column:rental_fee;not null;default:0" json:"rental_fee"`
	FeeAmount int64        `gorm:"column:fee_amount;not null" json:"fee_amount"`
	TotalDue  int64        `gorm:"column:total_due;not null" json:"total_due"`
	Status    PeriodStatus `gorm:"column:status;size:8;not null;default:'pending'" json:"status"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (PaymentPeriod) TableName() string { return "payment_periods" }
