package loan

import (
	"time"

	"pawn-settlement/internal/domain/schedule"
)

type CollateralInput struct {
	Description         string `json:"description"`
	AppraisedValue      int64  `json:"appraised_value"`
	AppraiserEmployeeID string `json:"appraiser_employee_id"`
}

type DisburseInput struct {
	CustomerID string
	Principal  int64
	Product    string
	// DisbursedAt anchors cycle 1; zero means today.
	DisbursedAt time.Time
	Collateral  CollateralInput
}

type LoanDTO struct {
	LoanID       string    `json:"loan_id"`
	CustomerID   string    `json:"customer_id"`
	Principal    int64     `json:"principal"`
	Product      string    `json:"product"`
	AppraisalFee int64     `json:"appraisal_fee"`
	NetDisbursed int64     `json:"net_disbursed"`
	DisbursedAt  string    `json:"disbursed_at"`
	CurrentCycle int       `json:"current_cycle"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

type QuoteDTO struct {
	Product      string               `json:"product"`
	Principal    int64                `json:"principal"`
	AppraisalFee int64                `json:"appraisal_fee"`
	NetDisbursed int64                `json:"net_disbursed"`
	TotalFee     int64                `json:"total_fee"`
	Milestones   []schedule.Milestone `json:"milestones"`
}
