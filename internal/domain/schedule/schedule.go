// Package schedule computes the fee milestones of each pawn loan product.
// Every function here is pure and safe for concurrent use.
package schedule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pawn-settlement/internal/domain/loan"
)

// CycleDays is the length of one borrowing cycle; it equals the last milestone day.
const CycleDays = 30

// AppraisalThreshold is the smallest principal that attracts an appraisal fee.
const AppraisalThreshold int64 = 5_000_000

var milestoneDays = [3]int{7, 18, 30}

var (
	perDiemRate   = decimal.RequireFromString("0.00033")
	appraisalRate = decimal.RequireFromString("0.05")

	installmentShares = [3]decimal.Decimal{
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.50"),
	}
	installmentTargets = [3]decimal.Decimal{
		decimal.RequireFromString("0.03"),
		decimal.RequireFromString("0.05"),
		decimal.RequireFromString("0.07"),
	}

	bulletRates = map[loan.Product][3]decimal.Decimal{
		loan.BulletByMilestone: {
			decimal.RequireFromString("0.05"),
			decimal.RequireFromString("0.08"),
			decimal.RequireFromString("0.12"),
		},
		loan.BulletWithCollateralHold: {
			decimal.RequireFromString("0.0125"),
			decimal.RequireFromString("0.035"),
			decimal.RequireFromString("0.05"),
		},
	}
)

// Milestone is one settlement point. For installment products Principal,
// Interest and RentalFee are the period's breakdown; for bullet products only
// Fee and Total are set and Total is the full settlement cost at that day.
type Milestone struct {
	Number    int   `json:"number"`
	Day       int   `json:"day"`
	Principal int64 `json:"principal"`
	Interest  int64 `json:"interest"`
	RentalFee int64 `json:"rental_fee"`
	Fee       int64 `json:"fee"`
	Total     int64 `json:"total"`
}

type Schedule struct {
	Product    loan.Product `json:"product"`
	Principal  int64        `json:"principal"`
	Milestones []Milestone  `json:"milestones"`
}

// TotalFee sums the fee of every milestone.
func (s Schedule) TotalFee() int64 {
	var sum int64
	for _, m := range s.Milestones {
		sum += m.Fee
	}
	return sum
}

// Compute returns the ordered milestones for principal under product.
// Principal must lie in (0, loan.MaxAmount].
func Compute(principal int64, product loan.Product) (Schedule, error) {
	if err := loan.CheckAmount("principal", principal); err != nil {
		return Schedule{}, err
	}

	var ms []Milestone
	switch product {
	case loan.Installment3Period:
		ms = installments(principal)
	case loan.BulletByMilestone, loan.BulletWithCollateralHold:
		ms = bullets(principal, bulletRates[product])
	default:
		return Schedule{}, fmt.Errorf("%w: %q", loan.ErrUnknownProduct, product)
	}
	return Schedule{Product: product, Principal: principal, Milestones: ms}, nil
}

// AppraisalFee is the one-time fee deducted from the disbursed amount.
func AppraisalFee(principal int64, product loan.Product) int64 {
	if principal < AppraisalThreshold {
		return 0
	}
	switch product {
	case loan.Installment3Period, loan.BulletByMilestone:
		return round(decimal.NewFromInt(principal).Mul(appraisalRate))
	default:
		return 0
	}
}

func installments(principal int64) []Milestone {
	p := decimal.NewFromInt(principal)
	out := make([]Milestone, 0, len(milestoneDays))

	var repaid int64
	prevDay := 0
	for i, day := range milestoneDays {
		part := principal - repaid
		if i < len(milestoneDays)-1 {
			part = round(p.Mul(installmentShares[i]))
		}

		outstanding := decimal.NewFromInt(principal - repaid)
		interest := round(outstanding.Mul(perDiemRate).Mul(decimal.NewFromInt(int64(day - prevDay))))
		target := round(p.Mul(installmentTargets[i]))
		rental := max(0, target-interest)

		out = append(out, Milestone{
			Number:    i + 1,
			Day:       day,
			Principal: part,
			Interest:  interest,
			RentalFee: rental,
			Fee:       interest + rental,
			Total:     part + interest + rental,
		})
		repaid += part
		prevDay = day
	}
	return out
}

func bullets(principal int64, rates [3]decimal.Decimal) []Milestone {
	p := decimal.NewFromInt(principal)
	out := make([]Milestone, 0, len(milestoneDays))
	for i, day := range milestoneDays {
		total := round(p.Mul(decimal.NewFromInt(1).Add(rates[i])))
		out = append(out, Milestone{
			Number: i + 1,
			Day:    day,
			Fee:    total - principal,
			Total:  total,
		})
	}
	return out
}

// round is half away from zero to whole currency units.
func round(d decimal.Decimal) int64 { return d.Round(0).IntPart() }
