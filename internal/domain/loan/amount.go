package loan

import (
	"fmt"
	"math"
)

// MaxAmount bounds every principal and payment. At this bound the dearest
// milestone (112% of principal) still fits in int64 with room to spare.
const MaxAmount int64 = 1_000_000_000_000_000

// CheckAmount rejects a non-positive amount or one above MaxAmount.
func CheckAmount(what string, v int64) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidAmount, what, v)
	}
	if v > MaxAmount {
		return fmt.Errorf("%w: %s must not exceed %d, got %d", ErrInvalidAmount, what, MaxAmount, v)
	}
	return nil
}

// AddAmounts sums two non-negative amounts, failing with ErrInvalidAmount
// instead of wrapping past math.MaxInt64.
func AddAmounts(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: cannot add negative amounts %d and %d", ErrInvalidAmount, a, b)
	}
	if b > math.MaxInt64-a {
		return 0, fmt.Errorf("%w: %d + %d overflows", ErrInvalidAmount, a, b)
	}
	return a + b, nil
}
