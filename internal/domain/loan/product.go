package loan

import "fmt"

// Product is the closed set of pawn loan products. It is chosen when the loan
// is disbursed and stored as-is; it is never derived from a display label.
type Product string

const (
	// Installment3Period repays principal in three fixed tranches, each with
	// per-diem interest topped up by a rental fee.
	Installment3Period Product = "installment_3_period"
	// BulletByMilestone repays principal in full at one of three milestones
	// for a flat fee.
	BulletByMilestone Product = "bullet_by_milestone"
	// BulletWithCollateralHold is BulletByMilestone with cheaper tiers; the
	// pledged asset stays in custody.
	BulletWithCollateralHold Product = "bullet_with_collateral_hold"
)

var products = []Product{Installment3Period, BulletByMilestone, BulletWithCollateralHold}

// Products returns every known product in a stable order.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

func (p Product) Valid() bool {
	for _, known := range products {
		if p == known {
			return true
		}
	}
	return false
}

// HoldsCollateral reports whether the asset is kept in custody for the loan's life.
func (p Product) HoldsCollateral() bool { return p == BulletWithCollateralHold }

func ParseProduct(s string) (Product, error) {
	p := Product(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProduct, s)
	}
	return p, nil
}
