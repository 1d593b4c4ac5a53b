package collateral

import "context"

type Repository interface {
	// Create a collateral record (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, c *Collateral) error

	// Get collateral by numeric loan ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Collateral, error)

	// Save persists changes such as the release timestamp on redemption
	Save(ctx context.Context, c *Collateral) error
}
