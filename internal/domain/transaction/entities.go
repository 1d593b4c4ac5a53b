package transaction

import "time"

type Type string

const (
	TypeInterestPayment  Type = "interest_payment"
	TypePrincipalPayment Type = "principal_payment"
)

// PaymentTransaction rows are append-only: never updated, never deleted.
type PaymentTransaction struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TransactionID string    `gorm:"column:transaction_id;type:char(32);not null;uniqueIndex:ux_transactions_transaction_id" json:"transaction_id"`
	LoanID        uint64    `gorm:"column:loan_id;not null;index:idx_transactions_loan" json:"-"`
	CycleID       uint64    `gorm:"column:cycle_id;not null;index:idx_transactions_cycle_type" json:"-"`
	Type          Type      `gorm:"column:transaction_type;size:24;not null;index:idx_transactions_cycle_type" json:"transaction_type"`
	Amount        int64     `gorm:"column:amount;not null" json:"amount"`
	Notes         *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
