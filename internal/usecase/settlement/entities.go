package settlement

import "time"

type RedeemInput struct {
	LoanID          string
	PrincipalAmount int64
	InterestAmount  int64
	Notes           *string
}

type RedemptionDTO struct {
	LoanID                 string `json:"loan_id"`
	TotalAmount            int64  `json:"total_amount"`
	PrincipalTransactionID string `json:"principal_transaction_id"`
	InterestTransactionID  string `json:"interest_transaction_id,omitempty"`
	// Shortfall is how much of the remaining interest the operator waived.
	Shortfall  int64     `json:"interest_shortfall"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
