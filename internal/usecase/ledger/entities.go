package ledger

import (
	"time"

	domainLoan "pawn-settlement/internal/domain/loan"
)

type PeriodDTO struct {
	PeriodNumber int    `json:"period_number"`
	MilestoneDay int    `json:"milestone_day"`
	DueDate      string `json:"due_date"` // YYYY-MM-DD
	Principal    int64  `json:"principal"`
	Interest     int64  `json:"interest"`
	RentalFee    int64  `json:"rental_fee"`
	FeeAmount    int64  `json:"fee_amount"`
	TotalDue     int64  `json:"total_due"`
	Status       string `json:"status"`
}

// View is the read projection of a loan's active cycle.
type View struct {
	LoanID      string      `json:"loan_id"`
	Product     string      `json:"product"`
	State       string      `json:"state"`
	CycleNumber int         `json:"cycle_number"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Periods     []PeriodDTO `json:"periods"`
	TotalDue    int64       `json:"total_interest_due"`
	TotalPaid   int64       `json:"total_interest_paid"`
	Remaining   int64       `json:"remaining_interest"`
}

type TransactionDTO struct {
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"transaction_type"`
	Amount        int64     `json:"amount"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type History struct {
	LoanID       string           `json:"loan_id"`
	CycleNumber  int              `json:"cycle_number"`
	Transactions []TransactionDTO `json:"transactions"`
}

// Reconciliation compares a cycle's cached interest total with its log.
type Reconciliation struct {
	LoanID      string `json:"loan_id"`
	CycleNumber int    `json:"cycle_number"`
	Cached      int64  `json:"cached_interest_paid"`
	Logged      int64  `json:"logged_interest_paid"`
	Consistent  bool   `json:"consistent"`

	cycleID uint64
}

// Err returns a *loan.DriftError when the two totals disagree.
func (r *Reconciliation) Err() error {
	if r.Consistent {
		return nil
	}
	return &domainLoan.DriftError{CycleID: r.cycleID, Cached: r.Cached, Logged: r.Logged}
}
